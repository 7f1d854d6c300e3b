package statement

import (
	"strconv"
	"strings"

	"ldb/src/core/casing"
)

// BuildInsert returns
//
//	INSERT INTO <table> (<col1>, <col2>) VALUES ($1, $2)
//
// with one column per non-Missing field, snake_cased, in field order. It
// returns false when no field survives, meaning there is nothing to insert.
func BuildInsert(table string, fields Fields) (Statement, bool) {
	present := fields.Present()
	if len(present) == 0 {
		return Statement{}, false
	}

	cols := make([]string, len(present))
	params := make([]string, len(present))
	values := make([]any, len(present))
	for i, f := range present {
		cols[i] = casing.ToSnakeCase(f.Key)
		params[i] = placeholder(i + 1)
		values[i] = f.Value
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")")

	return Statement{Text: b.String(), Values: values}, true
}

// BuildUpdate returns
//
//	UPDATE <table> SET <col1> = $1, <col2> = $2 WHERE <cond1> = $3 AND <cond2> = $4
//
// Conditions are optional. Their parameters continue the SET numbering and
// the logical operator of the first condition is not written. Nil
// conditions are skipped. It returns false when no field survives,
// whatever the conditions.
func BuildUpdate(table string, fields Fields, conds ...Condition) (Statement, bool) {
	present := fields.Present()
	if len(present) == 0 {
		return Statement{}, false
	}
	conds = nonNil(conds)

	values := make([]any, 0, len(present)+len(conds))
	sets := make([]string, len(present))
	for i, f := range present {
		values = append(values, f.Value)
		sets[i] = casing.ToSnakeCase(f.Key) + " = " + placeholder(len(values))
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	b.WriteString(strings.Join(sets, ", "))

	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		for i, c := range conds {
			e := c.clause()
			values = append(values, e.Value)
			if i > 0 {
				b.WriteString(" ")
				b.WriteString(e.Logical)
				b.WriteString(" ")
			}
			b.WriteString(casing.ToSnakeCase(e.Field))
			b.WriteString(" ")
			b.WriteString(e.Operator)
			b.WriteString(" ")
			b.WriteString(placeholder(len(values)))
		}
	}

	return Statement{Text: b.String(), Values: values}, true
}

func nonNil(conds []Condition) []Condition {
	out := make([]Condition, 0, len(conds))
	for _, c := range conds {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// ValidIdentifier reports whether name is safe to splice into statement text
// as a table or column name: ASCII letters, digits, underscores and dots,
// not starting with a digit.
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '.':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
