package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SchemaBundle is the merged artifact produced from a schema directory.
// It holds every method schema and every notification schema keyed by the
// file name it was read from.
type SchemaBundle struct {
	Methods       *SchemaSet `json:"methods"`
	Notifications *SchemaSet `json:"notifications"`
}

// NewSchemaBundle returns a bundle with two empty sets.
func NewSchemaBundle() *SchemaBundle {
	return &SchemaBundle{
		Methods:       NewSchemaSet(),
		Notifications: NewSchemaSet(),
	}
}

// SchemaSet maps file names to raw schema documents and remembers the order
// in which entries were added. The order survives a JSON round trip so a
// regenerated artifact is byte-stable.
type SchemaSet struct {
	keys []string
	docs map[string]json.RawMessage
}

// NewSchemaSet returns an empty set.
func NewSchemaSet() *SchemaSet {
	return &SchemaSet{docs: make(map[string]json.RawMessage)}
}

// Put stores doc under name. Re-putting an existing name replaces the
// document but keeps its original position.
func (s *SchemaSet) Put(name string, doc json.RawMessage) {
	if s.docs == nil {
		s.docs = make(map[string]json.RawMessage)
	}
	if _, ok := s.docs[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.docs[name] = doc
}

// Get returns the raw document stored under name.
func (s *SchemaSet) Get(name string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	doc, ok := s.docs[name]
	return doc, ok
}

// Names returns the file names in insertion order.
func (s *SchemaSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of documents in the set.
func (s *SchemaSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (s *SchemaSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if s != nil {
		for i, name := range s.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(s.docs[name])
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the order of its members.
func (s *SchemaSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema set must be a JSON object, got %v", tok)
	}
	s.keys = nil
	s.docs = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected schema set key %v", tok)
		}
		var doc json.RawMessage
		if err := dec.Decode(&doc); err != nil {
			return fmt.Errorf("schema %q: %w", name, err)
		}
		s.Put(name, doc)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
