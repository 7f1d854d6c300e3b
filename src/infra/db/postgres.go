package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ldb/src/infra/config"
)

// Conn is a connection checked out of a Pool. *pgxpool.Conn satisfies it.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Release()
}

// Pool is the subset of *pgxpool.Pool the package relies on.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close()
}

// OpenFunc creates a pool from a complete configuration.
type OpenFunc func(ctx context.Context, cfg config.DatabaseConfig) (Pool, error)

// pgxPool adapts *pgxpool.Pool to Pool.
type pgxPool struct {
	*pgxpool.Pool
}

var _ Pool = (*pgxPool)(nil)
var _ Conn = (*pgxpool.Conn)(nil)

func (p *pgxPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// OpenPool creates a pgx pool. Connections are opened lazily, so this does
// not reach the server; use DB.Health to check connectivity.
func OpenPool(ctx context.Context, cfg config.DatabaseConfig) (Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxPool > 0 {
		poolCfg.MaxConns = int32(cfg.MaxPool)
	}
	if cfg.IdleTimeoutMillis > 0 {
		poolCfg.MaxConnIdleTime = cfg.IdleTimeout()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &pgxPool{Pool: pool}, nil
}
