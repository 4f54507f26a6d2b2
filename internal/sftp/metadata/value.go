package metadata

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindString
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindString:
		return "string"
	case KindJSON:
		return "json"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a tagged metadata value. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    int64
	s    string // string payload, or JSON text for KindJSON
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int64 returns an integer value.
func Int64(n int64) Value { return Value{kind: KindInt64, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// JSON returns a JSON value holding pre-serialized text. The text is not
// validated until Decoded is called.
func JSON(text string) Value { return Value{kind: KindJSON, s: text} }

// JSONOf serializes v and wraps the result as a JSON value.
func JSONOf(v any) (Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("metadata: marshal json value: %w", err)
	}
	return JSON(string(b)), nil
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload and whether v is a KindBool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int64 returns the integer payload and whether v is a KindInt64.
func (v Value) Int64() (int64, bool) { return v.n, v.kind == KindInt64 }

// Str returns the string payload and whether v is a KindString.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Text returns the serialized JSON text and whether v is a KindJSON.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindJSON }

// Decoded parses the JSON text of a KindJSON value into generic Go values
// (map[string]any, []any, float64, ...). The text is parsed on every call.
func (v Value) Decoded() (any, error) {
	if v.kind != KindJSON {
		return nil, fmt.Errorf("metadata: value of kind %s is not json", v.kind)
	}
	var out any
	if err := json.Unmarshal([]byte(v.s), &out); err != nil {
		return nil, fmt.Errorf("metadata: parse json value: %w", err)
	}
	return out, nil
}

// Equal reports whether v and o hold the same kind and payload. JSON values
// compare by text.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt64:
		return v.n == o.n
	case KindString, KindJSON:
		return v.s == o.s
	default:
		return true
	}
}

// String renders the value for logs and CLI output.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt64:
		return strconv.FormatInt(v.n, 10)
	case KindString:
		return strconv.Quote(v.s)
	case KindJSON:
		return v.s
	default:
		return "null"
	}
}

// MarshalJSON emits the natural JSON form of the value. JSON values are
// emitted verbatim.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindInt64:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindJSON:
		if !json.Valid([]byte(v.s)) {
			return nil, fmt.Errorf("metadata: invalid json text %q", v.s)
		}
		return []byte(v.s), nil
	default:
		return []byte("null"), nil
	}
}
