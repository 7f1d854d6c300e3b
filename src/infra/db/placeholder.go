package db

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ldb/src/core/statement"
)

// Resolver rewrites the text of a statement that is about to run, using the
// results of the statements that ran before it in the same transaction.
type Resolver interface {
	Resolve(text string, prior []statement.Result) string
}

// TextResolver replaces #key# tokens with the value of column key taken from
// earlier results.
//
// A token starts at a '#' preceded by a non-word character and ends at the
// first '#' that is not followed by a word character; the key cannot span
// lines. Keys are lower-cased for lookup. Results are scanned newest first
// and only the last row of each is inspected; the first result having the
// column wins, even when its value is NULL.
//
// Strings, timestamps, UUIDs and byte slices are inserted single-quoted;
// numbers and booleans are inserted as is; an unknown key or NULL becomes
// the literal null.
type TextResolver struct{}

var _ Resolver = TextResolver{}

func (TextResolver) Resolve(text string, prior []statement.Result) string {
	var b strings.Builder
	last := 0
	i := 0
	for i+1 < len(text) {
		if isWordChar(text[i]) || text[i+1] != '#' {
			i++
			continue
		}
		end := tokenEnd(text, i+1)
		if end < 0 {
			i++
			continue
		}

		key := text[i+2 : end]
		b.WriteString(text[last : i+1])
		b.WriteString(literal(lookup(strings.ToLower(key), prior)))
		last = end + 1
		i = end + 1
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// tokenEnd returns the index of the '#' closing the token opened at start,
// or -1. The key must be at least one character long.
func tokenEnd(text string, start int) int {
	for j := start + 2; j < len(text); j++ {
		if text[j-1] == '\n' {
			return -1
		}
		if text[j] == '#' && (j+1 == len(text) || !isWordChar(text[j+1])) {
			return j
		}
	}
	return -1
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func lookup(key string, prior []statement.Result) any {
	for i := len(prior) - 1; i >= 0; i-- {
		row, ok := prior[i].LastRow()
		if !ok {
			continue
		}
		if v, ok := row[key]; ok {
			return v
		}
	}
	return nil
}

// literal renders v as SQL text.
func literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(t)
	case time.Time:
		return quote(t.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	case uuid.UUID:
		return quote(t.String())
	case [16]byte:
		return quote(uuid.UUID(t).String())
	case []byte:
		return quote(string(t))
	case bool:
		return strconv.FormatBool(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return quote(fmt.Sprint(t))
		}
		return literal(dv)
	case fmt.Stringer:
		return quote(t.String())
	default:
		return quote(fmt.Sprint(t))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
