package db

import (
	"context"
	"fmt"

	"ldb/src/core/domain"
	"ldb/src/core/statement"
	"ldb/src/infra/logger"
)

// Transaction runs stmts in order inside BEGIN/COMMIT on one connection.
//
// Before each statement after the first, its text goes through the
// Resolver with the results gathered so far. The results are returned in
// execution order once COMMIT succeeds. On any failure the transaction is
// rolled back, nothing is returned and the error is a
// *domain.TransactionError wrapping the *domain.StatementError. stmts is
// not modified.
func (d *DB) Transaction(ctx context.Context, stmts []statement.Statement) ([]statement.Result, error) {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, &domain.TransactionError{Err: fmt.Errorf("acquire connection: %w", err)}
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "BEGIN"); err != nil {
		return nil, &domain.TransactionError{Err: fmt.Errorf("begin transaction: %w", err)}
	}

	results := make([]statement.Result, 0, len(stmts))
	for i, s := range stmts {
		text := s.Text
		if i > 0 {
			text = d.resolver.Resolve(text, results)
		}

		res, err := run(ctx, conn, text, s.Values)
		if err != nil {
			stmtErr := domain.NewStatementError(i, text, err)
			d.rollback(ctx, conn, stmtErr)
			return nil, &domain.TransactionError{Err: stmtErr}
		}
		results = append(results, res)
	}

	if _, err := conn.Exec(ctx, "COMMIT"); err != nil {
		err = fmt.Errorf("commit transaction: %w", err)
		d.rollback(ctx, conn, err)
		return nil, &domain.TransactionError{Err: err}
	}

	logger.Debug(d.log, "transaction committed", "statements", len(stmts))
	return results, nil
}

func run(ctx context.Context, conn Conn, text string, values []any) (statement.Result, error) {
	rows, err := conn.Query(ctx, text, values...)
	if err != nil {
		return statement.Result{}, err
	}
	return collect(rows)
}

// rollback is best effort: a failure is logged and never replaces cause.
func (d *DB) rollback(ctx context.Context, conn Conn, cause error) {
	logger.Warn(d.log, "unable to complete transaction, rolling back", "error", cause)

	if _, err := conn.Exec(context.WithoutCancel(ctx), "ROLLBACK"); err != nil {
		logger.Error(d.log, "rollback failed", "error", err, "cause", cause)
	}
}
