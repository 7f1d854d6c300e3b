// Package statement defines the unit of work sent to the database and the
// builders that produce parameterized INSERT and UPDATE statements from
// ordered field lists.
//
// A Statement is either raw SQL text or text plus positional values bound to
// $1..$n. On the wire both forms are accepted:
//
//	"SELECT 1"
//	{"text": "UPDATE users SET name = $1 WHERE id = $2", "values": ["bar", 7]}
package statement

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Statement is one SQL operation plus its bound parameters.
type Statement struct {
	Text   string `json:"text"`
	Values []any  `json:"values"`
}

// Raw returns a statement without bound parameters.
func Raw(text string) Statement {
	return Statement{Text: text}
}

// New returns a parameterized statement.
func New(text string, values ...any) Statement {
	return Statement{Text: text, Values: values}
}

// UnmarshalJSON accepts either a bare string or a {text, values} object.
// Integral values are decoded as int64, other numbers as float64.
func (s *Statement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = Raw(text)
		return nil
	}

	type wire Statement
	var w wire
	if err := decodeNumbers(data, &w); err != nil {
		return fmt.Errorf("statement must be a string or an object with text and values: %w", err)
	}
	for i, v := range w.Values {
		w.Values[i] = normalizeNumbers(v)
	}
	*s = Statement(w)
	return nil
}

// Batch is what Execute receives: one statement run directly on the pool or
// an ordered sequence run as a single transaction.
type Batch struct {
	stmts    []Statement
	sequence bool
}

// Single wraps one statement for pool-level execution.
func Single(s Statement) Batch {
	return Batch{stmts: []Statement{s}}
}

// Sequence wraps statements that must run inside one transaction. An empty
// sequence is valid and commits without doing anything.
func Sequence(stmts ...Statement) Batch {
	return Batch{stmts: stmts, sequence: true}
}

// IsSequence reports whether the batch runs as a transaction.
func (b Batch) IsSequence() bool {
	return b.sequence
}

// Statements returns the statements of the batch in execution order.
func (b Batch) Statements() []Statement {
	return b.stmts
}

// UnmarshalJSON decodes an array as a sequence and anything else as a single
// statement.
func (b *Batch) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var stmts []Statement
		if err := json.Unmarshal(data, &stmts); err != nil {
			return err
		}
		if stmts == nil {
			stmts = []Statement{}
		}
		*b = Sequence(stmts...)
		return nil
	}

	var s Statement
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = Single(s)
	return nil
}
