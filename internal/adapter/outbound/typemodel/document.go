package typemodel

import (
	"encoding/json"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/msggen/internal/domain"
)

// parseSchema decodes raw into an openapi3.Schema after rewriting the
// annotations the schema corpus writes in list form (multi-line
// descriptions, versioned deprecations) into their scalar forms.
func parseSchema(raw json.RawMessage) (*openapi3.Schema, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	data, err := json.Marshal(normalize(doc))
	if err != nil {
		return nil, err
	}
	schema := openapi3.NewSchema()
	if err := json.Unmarshal(data, schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			switch k {
			case "description":
				if lines, ok := child.([]any); ok {
					t[k] = joinLines(lines)
					continue
				}
			case "deprecated":
				switch child.(type) {
				case []any, string:
					t[k] = true
					continue
				}
			}
			t[k] = normalize(child)
		}
		return t
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	default:
		return v
	}
}

func joinLines(lines []any) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if s, ok := l.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// member returns the raw value stored under key in the object raw.
func member(raw json.RawMessage, key string) (json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

// properties returns the "properties" member of raw in document order.
func properties(raw json.RawMessage) (*domain.SchemaSet, error) {
	set := domain.NewSchemaSet()
	props, ok := member(raw, "properties")
	if !ok || string(props) == "null" {
		return set, nil
	}
	if err := json.Unmarshal(props, set); err != nil {
		return nil, err
	}
	return set, nil
}

// elements returns the members of the array stored under key in raw.
func elements(raw json.RawMessage, key string) []json.RawMessage {
	v, ok := member(raw, key)
	if !ok {
		return nil
	}
	var out []json.RawMessage
	if err := json.Unmarshal(v, &out); err != nil {
		return nil
	}
	return out
}

// conditionalBranches returns the then/else branches of raw itself followed
// by every allOf entry of raw together with its then/else branches.
func conditionalBranches(raw json.RawMessage) []json.RawMessage {
	out := thenElse(raw)
	for _, entry := range elements(raw, "allOf") {
		out = append(out, entry)
		out = append(out, thenElse(entry)...)
	}
	return out
}

func thenElse(raw json.RawMessage) []json.RawMessage {
	var out []json.RawMessage
	for _, key := range []string{"then", "else"} {
		if branch, ok := member(raw, key); ok {
			out = append(out, branch)
		}
	}
	return out
}
