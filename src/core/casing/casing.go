// Package casing converts identifiers and the keys of nested objects between
// snake_case (column names) and camelCase (caller-facing field names).
package casing

import "strings"

// ToSnakeCase replaces every ASCII upper-case letter with an underscore
// followed by its lower-case form: "firstName" becomes "first_name".
func ToSnakeCase(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(c + 'a' - 'A')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ToCamelCase drops every underscore that precedes an ASCII letter or digit
// and upper-cases that character: "first_name" becomes "firstName".
func ToCamelCase(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' && i+1 < len(s) && isAlnum(s[i+1]) {
			next := s[i+1]
			if next >= 'a' && next <= 'z' {
				next -= 'a' - 'A'
			}
			b.WriteByte(next)
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// SnakeKeys returns v with every map key converted by ToSnakeCase.
// Strings are converted, containers are walked recursively and any other
// value is returned as is.
func SnakeKeys(v any) any {
	return convert(v, ToSnakeCase)
}

// CamelKeys is the ToCamelCase counterpart of SnakeKeys.
func CamelKeys(v any) any {
	return convert(v, ToCamelCase)
}

// CamelRows converts the column names of result rows for JSON output.
func CamelRows(rows []map[string]any) []map[string]any {
	if rows == nil {
		return nil
	}
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		out[i] = convertMap(row, ToCamelCase)
	}
	return out
}

func convert(v any, fn func(string) string) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return fn(t)
	case map[string]any:
		return convertMap(t, fn)
	case []map[string]any:
		if t == nil {
			return t
		}
		out := make([]map[string]any, len(t))
		for i, m := range t {
			out[i] = convertMap(m, fn)
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = convertValue(elem, fn)
		}
		return out
	default:
		return v
	}
}

func convertMap(m map[string]any, fn func(string) string) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[fn(k)] = convertValue(val, fn)
	}
	return out
}

// convertValue only descends into containers; string values nested in a
// structure are data, not identifiers.
func convertValue(v any, fn func(string) string) any {
	switch v.(type) {
	case map[string]any, []any, []map[string]any:
		return convert(v, fn)
	default:
		return v
	}
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
