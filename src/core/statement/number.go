package statement

import (
	"bytes"
	"encoding/json"
)

// decodeNumbers decodes data into v keeping JSON numbers as json.Number, so
// integers past 2^53 survive until normalizeNumbers converts them.
func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// normalizeNumbers replaces every json.Number in v, including those nested
// in arrays and objects, with an int64 when it is integral and in range and
// with a float64 otherwise.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeNumbers(val)
		}
		return t
	default:
		return v
	}
}
