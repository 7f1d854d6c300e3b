package db

import (
	"github.com/jackc/pgx/v5"

	"ldb/src/core/statement"
)

// collect drains rows into a Result and closes them.
func collect(rows pgx.Rows) (statement.Result, error) {
	data, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return statement.Result{}, err
	}
	if data == nil {
		data = []map[string]any{}
	}

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, fd := range fields {
		cols[i] = fd.Name
	}

	tag := rows.CommandTag()
	return statement.Result{
		Command:      tag.String(),
		RowsAffected: tag.RowsAffected(),
		Columns:      cols,
		Rows:         data,
	}, nil
}
