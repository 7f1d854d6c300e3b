package statement

// Result holds the output of one executed statement.
type Result struct {
	// Command is the command tag reported by the server, e.g. "INSERT 0 1".
	Command string `json:"command"`

	// RowsAffected is the row count from the command tag.
	RowsAffected int64 `json:"rowCount"`

	// Columns lists the result columns in select order.
	Columns []string `json:"columns"`

	// Rows maps column name to value, one entry per output row.
	Rows []map[string]any `json:"rows"`
}

// LastRow returns the final output row, if any.
func (r *Result) LastRow() (map[string]any, bool) {
	if r == nil || len(r.Rows) == 0 {
		return nil, false
	}
	return r.Rows[len(r.Rows)-1], true
}
