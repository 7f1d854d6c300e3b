package db

import (
	"context"
	"log/slog"

	"ldb/src/core/domain"
	"ldb/src/core/ports"
	"ldb/src/core/statement"
	"ldb/src/infra/config"
	"ldb/src/infra/logger"
)

// DB runs statements on one pool.
type DB struct {
	pool     Pool
	cfg      config.DatabaseConfig
	log      *slog.Logger
	resolver Resolver
}

// New wraps pool. The configuration is kept for reference and for
// extending it later; it is not applied to the pool.
func New(pool Pool, cfg config.DatabaseConfig, log *slog.Logger) *DB {
	return &DB{
		pool:     pool,
		cfg:      cfg,
		log:      logger.WithComponent(log, "db"),
		resolver: TextResolver{},
	}
}

// WithResolver returns a copy of d that rewrites placeholders with r.
func (d *DB) WithResolver(r Resolver) *DB {
	cp := *d
	cp.resolver = r
	return &cp
}

// Config returns the configuration the pool was built from.
func (d *DB) Config() config.DatabaseConfig {
	return d.cfg
}

// Query runs one statement directly on the pool. Errors are returned as
// *domain.StatementError without any recovery.
func (d *DB) Query(ctx context.Context, s statement.Statement) (*statement.Result, error) {
	rows, err := d.pool.Query(ctx, s.Text, s.Values...)
	if err != nil {
		return nil, domain.NewStatementError(0, s.Text, err)
	}
	res, err := collect(rows)
	if err != nil {
		return nil, domain.NewStatementError(0, s.Text, err)
	}
	return &res, nil
}

// Execute runs a single statement on the pool or a sequence as one
// transaction. A single statement yields a one-element slice.
func (d *DB) Execute(ctx context.Context, b statement.Batch) ([]statement.Result, error) {
	if b.IsSequence() {
		return d.Transaction(ctx, b.Statements())
	}
	stmts := b.Statements()
	if len(stmts) == 0 {
		return []statement.Result{}, nil
	}
	res, err := d.Query(ctx, stmts[0])
	if err != nil {
		return nil, err
	}
	return []statement.Result{*res}, nil
}

// BuildInsert is statement.BuildInsert.
func (d *DB) BuildInsert(table string, fields statement.Fields) (statement.Statement, bool) {
	return statement.BuildInsert(table, fields)
}

// BuildUpdate is statement.BuildUpdate.
func (d *DB) BuildUpdate(table string, fields statement.Fields, conds ...statement.Condition) (statement.Statement, bool) {
	return statement.BuildUpdate(table, fields, conds...)
}

// Health checks if the database is reachable.
func (d *DB) Health(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close closes the pool. Call this during graceful shutdown.
func (d *DB) Close() {
	if d.pool != nil {
		d.pool.Close()
		logger.Info(d.log, "database pool closed")
	}
}

var _ ports.Database = (*DB)(nil)
