// Package typemodel builds composite type trees from JSON Schema subtrees.
package typemodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/msggen/internal/domain"
)

// errUntyped marks a property that declares no type. Conditional branches
// routinely restate already declared properties this way.
var errUntyped = errors.New("property has no type")

// Builder implements usecase.TypeBuilder.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logger.With("component", "typemodel_builder")}
}

// Build converts raw into a CompositeField named name. Properties keep the
// order of the document. Properties that only appear in allOf conditional
// branches are appended as optional fields.
func (b *Builder) Build(raw json.RawMessage, path string, name domain.TypeName) (*domain.CompositeField, error) {
	schema, err := parseSchema(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSchemaShape, path, err)
	}
	if typ := schemaType(schema); typ != "" && typ != openapi3.TypeObject {
		return nil, fmt.Errorf("%w: %s: root must be an object, got %q", domain.ErrSchemaShape, path, typ)
	}
	c, err := b.composite(schema, raw, path, name)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("Built type", slog.String("typename", name.String()), slog.Int("fields", len(c.Fields)))
	return c, nil
}

func (b *Builder) composite(schema *openapi3.Schema, raw json.RawMessage, path string, name domain.TypeName) (*domain.CompositeField, error) {
	c := &domain.CompositeField{
		TypeName:    name,
		Path:        path,
		Description: schema.Description,
		Fields:      []domain.Field{},
	}

	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}

	props, err := properties(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSchemaShape, path, err)
	}
	seen := make(map[string]bool, props.Len())
	for _, prop := range props.Names() {
		propRaw, _ := props.Get(prop)
		f, err := b.field(prop, schema.Properties[prop], propRaw, path+"."+prop, name, required[prop])
		if err != nil {
			return nil, err
		}
		c.Fields = append(c.Fields, *f)
		seen[prop] = true
	}

	for _, branch := range conditionalBranches(raw) {
		branchSchema, err := parseSchema(branch)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: conditional branch: %v", domain.ErrSchemaShape, path, err)
		}
		branchProps, err := properties(branch)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: conditional branch: %v", domain.ErrSchemaShape, path, err)
		}
		for _, prop := range branchProps.Names() {
			if seen[prop] {
				continue
			}
			propRaw, _ := branchProps.Get(prop)
			f, err := b.field(prop, branchSchema.Properties[prop], propRaw, path+"."+prop, name, false)
			if errors.Is(err, errUntyped) {
				continue
			}
			if err != nil {
				return nil, err
			}
			c.Fields = append(c.Fields, *f)
			seen[prop] = true
		}
	}
	return c, nil
}

func (b *Builder) field(name string, ref *openapi3.SchemaRef, raw json.RawMessage, path string, parent domain.TypeName, required bool) (*domain.Field, error) {
	if ref == nil || ref.Value == nil {
		if ref != nil && ref.Ref != "" {
			return nil, fmt.Errorf("%w: %s: references (%s) are not supported", domain.ErrSchemaShape, path, ref.Ref)
		}
		return nil, fmt.Errorf("%w: %s: empty schema", domain.ErrSchemaShape, path)
	}
	s := ref.Value

	f := &domain.Field{
		Name:        name,
		Path:        path,
		Required:    required,
		Deprecated:  s.Deprecated,
		Added:       added(s),
		Description: s.Description,
	}

	typ := schemaType(s)
	switch {
	case len(s.Enum) > 0:
		f.Kind = domain.FieldEnum
		f.Enum = &domain.EnumType{
			TypeName: domain.FieldTypeName(parent, name),
			Values:   enumValues(s.Enum),
		}

	case typ == openapi3.TypeObject || (typ == "" && len(s.Properties) > 0):
		nested, err := b.composite(s, raw, path, domain.FieldTypeName(parent, name))
		if err != nil {
			return nil, err
		}
		f.Kind = domain.FieldComposite
		f.Composite = nested

	case typ == openapi3.TypeArray:
		if s.Items == nil {
			return nil, fmt.Errorf("%w: %s: array without items", domain.ErrSchemaShape, path)
		}
		itemsRaw, _ := member(raw, "items")
		items, err := b.field(name, s.Items, itemsRaw, path+"[]", parent, true)
		if err != nil {
			return nil, err
		}
		f.Kind = domain.FieldArray
		f.Items = items

	case typ == "" && len(s.OneOf) > 0:
		variants, err := b.union(name, s.OneOf, raw, path, parent)
		if err != nil {
			return nil, err
		}
		f.Kind = domain.FieldUnion
		f.Variants = variants

	case typ == "":
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrSchemaShape, errUntyped, path)

	default:
		f.Kind = domain.FieldPrimitive
		f.Type = typ
	}
	return f, nil
}

// union builds one variant per typed oneOf member. A variant is named after
// its member's type ("key" -> "key_string", "key_array") so nested types of
// different variants get distinct names.
func (b *Builder) union(name string, members openapi3.SchemaRefs, raw json.RawMessage, path string, parent domain.TypeName) ([]domain.Field, error) {
	membersRaw := elements(raw, "oneOf")
	used := make(map[string]bool, len(members))
	variants := make([]domain.Field, 0, len(members))
	for i, m := range members {
		if m != nil && m.Value != nil && isNull(m.Value) {
			continue
		}
		suffix := "variant"
		if m != nil && m.Value != nil {
			if t := schemaType(m.Value); t != "" {
				suffix = t
			}
		}
		if used[suffix] {
			suffix = fmt.Sprintf("%s%d", suffix, i+1)
		}
		used[suffix] = true

		var memberRaw json.RawMessage
		if i < len(membersRaw) {
			memberRaw = membersRaw[i]
		}
		v, err := b.field(name+"_"+suffix, m, memberRaw, fmt.Sprintf("%s|%d", path, i), parent, false)
		if err != nil {
			return nil, err
		}
		variants = append(variants, *v)
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: %s: oneOf has no typed member", domain.ErrSchemaShape, path)
	}
	return variants, nil
}

func isNull(s *openapi3.Schema) bool {
	if s.Type == nil {
		return false
	}
	types := s.Type.Slice()
	return len(types) == 1 && types[0] == openapi3.TypeNull
}

// schemaType returns the first non-null type of s, or "" if none is declared.
func schemaType(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	for _, t := range s.Type.Slice() {
		if t != openapi3.TypeNull {
			return t
		}
	}
	return ""
}

func added(s *openapi3.Schema) string {
	if v, ok := s.Extensions["added"].(string); ok {
		return v
	}
	return ""
}

func enumValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, strings.TrimSpace(fmt.Sprint(v)))
	}
	return out
}
