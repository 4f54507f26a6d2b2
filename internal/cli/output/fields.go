package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Fields is an ordered set of key/value pairs. It prints as a two column
// table and marshals to an object that keeps insertion order.
type Fields struct {
	keys   []string
	values []any
}

// NewFields returns an empty Fields.
func NewFields() *Fields { return &Fields{} }

// Add appends key with v and returns f for chaining.
func (f *Fields) Add(key string, v any) *Fields {
	f.keys = append(f.keys, key)
	f.values = append(f.values, v)
	return f
}

// Len is the number of pairs.
func (f *Fields) Len() int { return len(f.keys) }

// Get returns the first value stored under key.
func (f *Fields) Get(key string) (any, bool) {
	for i, k := range f.keys {
		if k == key {
			return f.values[i], true
		}
	}
	return nil, false
}

func (f *Fields) Headers() []string { return nil }

func (f *Fields) Rows() [][]string {
	rows := make([][]string, len(f.keys))
	for i, k := range f.keys {
		rows[i] = []string{k, cell(f.values[i])}
	}
	return rows
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case json.Marshaler:
		b, err := x.MarshalJSON()
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// MarshalJSON writes an object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[i])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes a mapping in insertion order.
func (f *Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, k := range f.keys {
		var val yaml.Node
		if err := val.Encode(f.values[i]); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}
