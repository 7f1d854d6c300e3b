// Package domain holds the error kinds shared by the data-access layer and
// its HTTP surface.
//
//   - ConfigurationError: required credentials are missing
//   - StatementError: the database rejected a statement
//   - TransactionError: a transaction was rolled back; wraps the StatementError
//
// Every type matches its sentinel with errors.Is and unwraps to the
// underlying cause, so a caller can still reach the *pgconn.PgError:
//
//	var pgErr *pgconn.PgError
//	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
//	    // unique violation inside a transaction
//	}
package domain
