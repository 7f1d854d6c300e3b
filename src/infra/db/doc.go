// Package db runs statements against a PostgreSQL pool.
//
// This package is responsible for:
//   - building pgx pools from merged configuration (Registry)
//   - single statements on the pool (DB.Query)
//   - ordered statement sequences in one transaction with #key# placeholder
//     propagation between statements (DB.Transaction)
//
// Example usage:
//
//	reg := db.NewRegistry(log, nil)
//	pg, err := reg.Instance(ctx, nil)
//	if err != nil {
//	    return err
//	}
//	results, err := pg.Transaction(ctx, []statement.Statement{
//	    statement.Raw("INSERT INTO authors (name) VALUES ('Ann') RETURNING author_id"),
//	    statement.Raw("UPDATE books SET title = 'New Title' WHERE author_id = #author_id#"),
//	})
//
// Placeholders are rewritten as raw text before each statement runs. A token
// inside a string literal is rewritten too when its surrounding characters
// match; the rewrite does not parse SQL.
package db
