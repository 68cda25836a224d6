package domain

import (
	"fmt"
	"strings"
)

// TypeName is the name a generated type carries in every target language.
type TypeName string

// String returns the name as a plain string.
func (n TypeName) String() string { return string(n) }

// FieldKind identifies how a Field is rendered.
type FieldKind string

const (
	FieldPrimitive FieldKind = "primitive"
	FieldComposite FieldKind = "composite"
	FieldArray     FieldKind = "array"
	FieldEnum      FieldKind = "enum"
	// FieldUnion holds exactly one of Variants at a time (a oneOf property).
	FieldUnion     FieldKind = "union"
)

// CompositeField is an object type built from a schema subtree.
// A CompositeField is owned by exactly one Method or Notification and is
// rebuilt on every load.
type CompositeField struct {
	TypeName    TypeName `json:"typename"`
	Path        string   `json:"path"`
	Description string   `json:"description,omitempty"`
	Fields      []Field  `json:"fields"`
}

// Field is a single member of a CompositeField, or the element of an array.
type Field struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Kind FieldKind `json:"kind"`

	// Type is the schema type name for primitives (e.g. "u64", "msat", "string").
	Type string `json:"type,omitempty"`

	Composite *CompositeField `json:"composite,omitempty"`
	Enum      *EnumType       `json:"enum,omitempty"`
	Items     *Field          `json:"items,omitempty"`
	Variants  []Field         `json:"variants,omitempty"`

	Required    bool   `json:"required,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
	Added       string `json:"added,omitempty"`
	Description string `json:"description,omitempty"`
}

// EnumType is a closed set of string values with its own type name.
type EnumType struct {
	TypeName TypeName `json:"typename"`
	Values   []string `json:"values"`
}

// Method is a JSON-RPC call with its request and response types.
type Method struct {
	Name     string          `json:"name"`
	Request  *CompositeField `json:"request"`
	Response *CompositeField `json:"response"`
}

// Notification is a subscribable event. Request is what a subscriber sends
// to open the stream, Response is the payload delivered to it.
type Notification struct {
	Name     string          `json:"name"`
	TypeName TypeName        `json:"typename"`
	Request  *CompositeField `json:"request"`
	Response *CompositeField `json:"response"`
}

// Service is the complete description handed to code emitters.
type Service struct {
	Name          string         `json:"name"`
	Methods       []Method       `json:"methods"`
	Notifications []Notification `json:"notifications"`
	// Includes lists shared definition modules every emitter must import.
	Includes []string `json:"includes"`
}

// TypeNames returns every generated type name in the service, in the order
// the emitters walk them: methods first, then notifications, each tree
// depth-first.
func (s *Service) TypeNames() []TypeName {
	var names []TypeName
	for _, m := range s.Methods {
		names = m.Request.appendTypeNames(names)
		names = m.Response.appendTypeNames(names)
	}
	for _, n := range s.Notifications {
		names = n.Request.appendTypeNames(names)
		names = n.Response.appendTypeNames(names)
	}
	return names
}

// Validate checks that no two generated types share a name.
// Returns all collisions found, not just the first.
func (s *Service) Validate() []error {
	var errs []error
	seen := make(map[TypeName]bool)
	for _, name := range s.TypeNames() {
		if seen[name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateTypeName, name))
			continue
		}
		seen[name] = true
	}
	return errs
}

func (c *CompositeField) appendTypeNames(names []TypeName) []TypeName {
	if c == nil {
		return names
	}
	names = append(names, c.TypeName)
	for i := range c.Fields {
		names = c.Fields[i].appendTypeNames(names)
	}
	return names
}

func (f *Field) appendTypeNames(names []TypeName) []TypeName {
	switch f.Kind {
	case FieldComposite:
		return f.Composite.appendTypeNames(names)
	case FieldEnum:
		if f.Enum != nil {
			return append(names, f.Enum.TypeName)
		}
	case FieldArray:
		if f.Items != nil {
			return f.Items.appendTypeNames(names)
		}
	case FieldUnion:
		for i := range f.Variants {
			names = f.Variants[i].appendTypeNames(names)
		}
	}
	return names
}

// BaseTypeName derives the type name stem for a call name. Dashes are
// dropped, underscores separate words, and each word keeps only its first
// letter upper-cased: "ListPeers" -> "Listpeers",
// "FundChannel_Cancel" -> "FundchannelCancel".
func BaseTypeName(callName string) TypeName {
	var b strings.Builder
	for _, part := range strings.Split(strings.ReplaceAll(callName, "-", ""), "_") {
		b.WriteString(capitalize(strings.ToLower(part)))
	}
	return TypeName(b.String())
}

// FieldTypeName names a nested type after its parent and the field holding it:
// ("GetinfoResponse", "our_features") -> "GetinfoResponseOurFeatures".
func FieldTypeName(parent TypeName, field string) TypeName {
	var b strings.Builder
	b.WriteString(string(parent))
	for _, part := range strings.FieldsFunc(field, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	}) {
		b.WriteString(capitalize(part))
	}
	return TypeName(b.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
