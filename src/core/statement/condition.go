package statement

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultOperator = "="
	defaultLogical  = "AND"
)

var (
	allowedOperators = map[string]bool{
		"=": true, "!=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
		"LIKE": true, "ILIKE": true, "NOT LIKE": true, "IS": true, "IS NOT": true,
	}
	allowedLogicals = map[string]bool{"AND": true, "OR": true}
)

// Condition is one WHERE predicate of an UPDATE: either Simple or Explicit.
type Condition interface {
	clause() Explicit
}

// Simple compares Field for equality and joins with AND.
type Simple struct {
	Field string
	Value any
}

func (s Simple) clause() Explicit {
	return Explicit{Field: s.Field, Value: s.Value, Operator: defaultOperator, Logical: defaultLogical}
}

// Explicit carries its own operator and the logical operator joining it to
// the previous condition. Empty operators default to "=" and "AND".
type Explicit struct {
	Field    string
	Value    any
	Operator string
	Logical  string
}

func (e Explicit) clause() Explicit {
	if e.Operator == "" {
		e.Operator = defaultOperator
	}
	if e.Logical == "" {
		e.Logical = defaultLogical
	}
	return e
}

// Eq is an equality condition.
func Eq(field string, value any) Condition {
	return Simple{Field: field, Value: value}
}

// FieldOf returns the column name c compares, as given by the caller, or
// "" for a nil condition.
func FieldOf(c Condition) string {
	if c == nil {
		return ""
	}
	return c.clause().Field
}

// Or joins c to the previous condition with OR. Or(nil) is nil.
func Or(c Condition) Condition {
	if c == nil {
		return nil
	}
	e := c.clause()
	e.Logical = "OR"
	return e
}

// ParseCondition resolves the object form of a condition.
//
// An object with a "field" key is explicit: {"field", "value", "operator",
// "logicalOperator"}. Anything else is the {column: value} shorthand, where
// the column is the first key not starting with "_". The control keys "_op"
// and "_lop" are honored in both forms.
func ParseCondition(obj Fields) (Condition, error) {
	if len(obj) == 0 {
		return nil, errors.New("empty condition")
	}

	op, hasOp := stringKey(obj, "operator", "_op")
	lop, hasLop := stringKey(obj, "logicalOperator", "_lop")
	if hasOp {
		op = strings.ToUpper(strings.TrimSpace(op))
		if !allowedOperators[op] {
			return nil, fmt.Errorf("unsupported operator %q", op)
		}
	}
	if hasLop {
		lop = strings.ToUpper(strings.TrimSpace(lop))
		if !allowedLogicals[lop] {
			return nil, fmt.Errorf("unsupported logical operator %q", lop)
		}
	}

	if raw, ok := obj.Get("field"); ok {
		field, ok := raw.(string)
		if !ok || field == "" {
			return nil, errors.New("condition field must be a non-empty string")
		}
		value, _ := obj.Get("value")
		return Explicit{Field: field, Value: value, Operator: op, Logical: lop}, nil
	}

	column := obj[0]
	for _, f := range obj {
		if !strings.HasPrefix(f.Key, "_") {
			column = f
			break
		}
	}
	if !hasOp && !hasLop {
		return Simple{Field: column.Key, Value: column.Value}, nil
	}
	return Explicit{Field: column.Key, Value: column.Value, Operator: op, Logical: lop}, nil
}

func stringKey(obj Fields, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := obj.Get(k); ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// Conditions decodes from a single condition object or an array of them.
type Conditions []Condition

func (c *Conditions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*c = nil
		return nil
	}

	var objs []Fields
	if data[0] == '[' {
		if err := json.Unmarshal(data, &objs); err != nil {
			return err
		}
	} else {
		var obj Fields
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		objs = []Fields{obj}
	}

	out := make(Conditions, 0, len(objs))
	for i, obj := range objs {
		cond, err := ParseCondition(obj)
		if err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
		out = append(out, cond)
	}
	*c = out
	return nil
}
