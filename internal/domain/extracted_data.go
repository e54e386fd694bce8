package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ValueKind tags the shape of a single extracted field value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNull
	KindRaw // any other JSON value (number, bool, array, object), kept verbatim
)

// Value is one field of ExtractedData. Absence is expressed by the key not
// being present in the map, so a Value is always either a string, an explicit
// null, or an opaque raw JSON value.
type Value struct {
	kind ValueKind
	str  string
	raw  json.RawMessage
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Null returns an explicit null Value.
func Null() Value { return Value{kind: KindNull} }

// Raw returns a Value wrapping a non-string JSON value. A raw "null" or JSON
// string is normalized to the matching kind.
func Raw(msg json.RawMessage) Value {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Null()
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return String(s)
		}
	}
	cp := make(json.RawMessage, len(trimmed))
	copy(cp, trimmed)
	return Value{kind: KindRaw, raw: cp}
}

// Kind reports the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is an explicit null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether the value is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Text renders the value as plain text: strings verbatim, null as "",
// raw values as their JSON text.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindRaw:
		return string(v.raw)
	default:
		return ""
	}
}

// Truthy reports whether the value carries content: a non-empty string or a
// raw value other than false/0.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindRaw:
		s := string(v.raw)
		return s != "false" && s != "0"
	default:
		return false
	}
}

// Equal compares two values by kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindRaw:
		return bytes.Equal(v.raw, o.raw)
	default:
		return true
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindRaw:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Raw(data)
	return nil
}

// ExtractedData is an insertion-ordered open map from field name to Value.
// Unknown keys are carried through every transformation untouched.
type ExtractedData struct {
	keys   []string
	values map[string]Value
}

// NewExtractedData returns an empty map.
func NewExtractedData() *ExtractedData {
	return &ExtractedData{values: map[string]Value{}}
}

// ExtractedDataFromStrings builds a map from string pairs in argument order:
// key1, value1, key2, value2, ...
func ExtractedDataFromStrings(pairs ...string) *ExtractedData {
	d := NewExtractedData()
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Set(pairs[i], String(pairs[i+1]))
	}
	return d
}

// Len returns the number of keys.
func (d *ExtractedData) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// IsEmpty reports whether the map has no keys.
func (d *ExtractedData) IsEmpty() bool { return d.Len() == 0 }

// Keys returns the keys in insertion order.
func (d *ExtractedData) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Get returns the value for key and whether it is present.
func (d *ExtractedData) Get(key string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present (including explicit null).
func (d *ExtractedData) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Text returns the trimmed text of key, or "" when absent or null.
func (d *ExtractedData) Text(key string) string {
	v, ok := d.Get(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// Set assigns key. A new key is appended to the iteration order; an existing
// key keeps its position.
func (d *ExtractedData) Set(key string, v Value) {
	if d.values == nil {
		d.values = map[string]Value{}
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// SetString is shorthand for Set(key, String(s)).
func (d *ExtractedData) SetString(key, s string) { d.Set(key, String(s)) }

// Delete removes key if present.
func (d *ExtractedData) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for each key in order until fn returns false.
func (d *ExtractedData) Range(fn func(key string, v Value) bool) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		if !fn(k, d.values[k]) {
			return
		}
	}
}

// Clone returns an independent copy.
func (d *ExtractedData) Clone() *ExtractedData {
	out := NewExtractedData()
	d.Range(func(k string, v Value) bool {
		out.Set(k, v)
		return true
	})
	return out
}

// Equal reports whether both maps hold the same keys and values, ignoring order.
func (d *ExtractedData) Equal(o *ExtractedData) bool {
	if d.Len() != o.Len() {
		return false
	}
	equal := true
	d.Range(func(k string, v Value) bool {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			equal = false
		}
		return equal
	})
	return equal
}

// MarshalJSON writes keys in insertion order.
func (d ExtractedData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := d.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving key order. A JSON null decodes
// to an empty map. Duplicate keys keep their first position and last value.
func (d *ExtractedData) UnmarshalJSON(data []byte) error {
	*d = ExtractedData{values: map[string]Value{}}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding extracted data: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decoding extracted data: expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding extracted data key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decoding extracted data: non-string key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding extracted data value for %q: %w", key, err)
		}
		d.Set(key, Raw(raw))
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding extracted data: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("decoding extracted data: trailing content after object")
	}
	return nil
}

// Value implements driver.Valuer for jsonb columns.
func (d ExtractedData) Value() (driver.Value, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Scan implements sql.Scanner for jsonb columns.
func (d *ExtractedData) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		*d = ExtractedData{values: map[string]Value{}}
		return nil
	case []byte:
		return d.UnmarshalJSON(s)
	case string:
		return d.UnmarshalJSON([]byte(s))
	default:
		return fmt.Errorf("scanning extracted data: unsupported type %T", src)
	}
}
