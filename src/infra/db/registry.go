package db

import (
	"context"
	"log/slog"
	"sync"

	"ldb/src/core/domain"
	"ldb/src/infra/config"
	"ldb/src/infra/logger"
)

// Registry owns the shared DB of a process. It replaces a package-level
// singleton: the caller creates one and hands it to whoever needs a pool.
// Tests call Reset between cases.
type Registry struct {
	mu      sync.Mutex
	current *DB
	open    OpenFunc
	log     *slog.Logger
}

// NewRegistry returns an empty registry. open defaults to OpenPool.
func NewRegistry(log *slog.Logger, open OpenFunc) *Registry {
	if open == nil {
		open = OpenPool
	}
	return &Registry{open: open, log: log}
}

// Configure builds a DB and makes it the shared one, closing the previous
// shared DB.
//
// Sources, lowest precedence first: built-in defaults, the environment
// (including .env and DATABASE_URL), the previously shared configuration
// when overrides.Extend is set, and overrides itself. A
// *domain.ConfigurationError is returned when user, password or database is
// still empty.
func (r *Registry) Configure(ctx context.Context, overrides *config.DatabaseConfig) (*DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configureLocked(ctx, overrides)
}

func (r *Registry) configureLocked(ctx context.Context, overrides *config.DatabaseConfig) (*DB, error) {
	db, err := r.build(ctx, overrides)
	if err != nil {
		return nil, err
	}
	if r.current != nil {
		r.current.Close()
	}
	r.current = db
	return db, nil
}

// Instance returns a new, unshared DB built from overrides when they are
// given. Otherwise it returns the shared DB, configuring it from the
// environment on first use.
func (r *Registry) Instance(ctx context.Context, overrides *config.DatabaseConfig) (*DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if overrides != nil {
		return r.build(ctx, overrides)
	}
	if r.current != nil {
		return r.current, nil
	}
	return r.configureLocked(ctx, nil)
}

// Reset closes and forgets the shared DB.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		r.current.Close()
		r.current = nil
	}
}

func (r *Registry) build(ctx context.Context, overrides *config.DatabaseConfig) (*DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, &domain.ConfigurationError{Err: err}
	}

	if overrides != nil {
		if overrides.Extend && r.current != nil {
			cfg = cfg.Merge(r.current.cfg)
		}
		o, err := overrides.ExpandURL()
		if err != nil {
			return nil, &domain.ConfigurationError{Err: err}
		}
		cfg = cfg.Merge(o)
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, &domain.ConfigurationError{Missing: missing}
	}

	pool, err := r.open(ctx, cfg)
	if err != nil {
		return nil, &domain.ConfigurationError{Err: err}
	}

	logger.Info(r.log, "database pool configured",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
		"max_pool", cfg.MaxPool,
	)
	return New(pool, cfg, r.log), nil
}
