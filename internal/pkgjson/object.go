// Package pkgjson reads and writes package.json-style documents without
// disturbing the author's key order. Values are kept as raw JSON so members
// the tool does not touch round-trip verbatim (modulo indentation).
package pkgjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned when a document or member is not a JSON object.
var ErrNotObject = errors.New("not a JSON object")

// Object is a JSON object that remembers member order.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]json.RawMessage)}
}

// Parse decodes data, which must hold exactly one JSON object.
func Parse(data []byte) (*Object, error) {
	o := NewObject()
	if err := json.Unmarshal(data, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Keys returns member names in document order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.keys) }

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Raw returns the raw JSON for key.
func (o *Object) Raw(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

// String returns the member as a string. ok is false when the key is
// missing or the value is not a JSON string.
func (o *Object) String(key string) (string, bool) {
	raw, ok := o.values[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Object decodes the member as a nested Object. A missing key returns
// (nil, false, nil); a present non-object value returns ErrNotObject.
func (o *Object) Object(key string) (*Object, bool, error) {
	raw, ok := o.values[key]
	if !ok {
		return nil, false, nil
	}
	child := NewObject()
	if err := json.Unmarshal(raw, child); err != nil {
		return nil, true, fmt.Errorf("%q: %w", key, err)
	}
	return child, true, nil
}

// Set stores value under key, appending the key if it is new and keeping
// its position otherwise.
func (o *Object) Set(key string, value any) error {
	raw, err := marshalNoEscape(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrNotObject
	}

	o.keys = nil
	o.values = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		if _, dup := o.values[key]; !dup {
			o.keys = append(o.keys, key)
		}
		// Last duplicate wins, as with JSON.parse.
		o.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after top-level object")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(o.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode writes o with two-space indentation, no HTML escaping, and a
// trailing newline.
func Encode(w io.Writer, o *Object) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}

// Format returns the Encode output as bytes.
func Format(o *Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
