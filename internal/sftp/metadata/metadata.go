// Package metadata implements the typed key/value sidecar carried in the
// meta@sftp.ws extended attribute.
//
// Each entry is encoded as:
//
//	string key
//	uint8  tag
//	payload (depends on tag)
//
// with tags 0 (null, no payload), 1 (bool, one byte), 2 (int64), 3 (string)
// and 4 (JSON text as a string). An empty key ends the map early.
package metadata

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Metadata is an insertion-ordered mapping from key to Value.
// It is not safe for concurrent mutation.
type Metadata struct {
	keys   []string
	values map[string]Value
}

// New returns an empty Metadata.
func New() *Metadata {
	return &Metadata{values: make(map[string]Value)}
}

// Set stores v under key. Re-setting an existing key keeps its position.
func (m *Metadata) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key if present.
func (m *Metadata) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Metadata) Range(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Equal reports whether both mappings hold the same entries in the same order.
func (m *Metadata) Equal(o *Metadata) bool {
	if m.Len() != o.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	for i, k := range m.keys {
		if o.keys[i] != k || !m.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON emits a JSON object preserving insertion order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := m.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits a mapping node preserving insertion order.
func (m *Metadata) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.Keys() {
		var val yaml.Node
		v := m.values[k]
		var native any
		switch v.Kind() {
		case KindBool:
			native, _ = v.Bool()
		case KindInt64:
			native, _ = v.Int64()
		case KindString:
			native, _ = v.Str()
		case KindJSON:
			decoded, err := v.Decoded()
			if err != nil {
				return nil, err
			}
			native = decoded
		}
		if err := val.Encode(native); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}
