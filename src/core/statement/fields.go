package statement

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

type missing struct{}

// Missing marks a field that must be left out of a built statement entirely.
// It differs from nil, which binds SQL NULL.
var Missing any = missing{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

// Field is one caller-facing key and its value.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for a Field literal.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Fields keeps insertion order, which becomes parameter order.
type Fields []Field

// FieldsFromMap builds Fields from a map, ordered by key.
func FieldsFromMap(m map[string]any) Fields {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(Fields, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, F(k, m[k]))
	}
	return fields
}

// Get returns the value stored under key.
func (f Fields) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// Present returns the fields whose value is not Missing.
func (f Fields) Present() Fields {
	out := make(Fields, 0, len(f))
	for _, field := range f {
		if IsMissing(field.Value) {
			continue
		}
		out = append(out, field)
	}
	return out
}

// UnmarshalJSON decodes a JSON object keeping the order of its keys.
// Integral numbers become int64, other numbers float64.
func (f *Fields) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*f = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("fields must be a JSON object")
	}

	out := Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		out = append(out, F(key, normalizeNumbers(value)))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = out
	return nil
}
