// Package ports defines interfaces (ports) that connect the core to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"ldb/src/core/statement"
)

// Database runs statements. *db.DB implements it.
type Database interface {
	ExternalService

	// Execute runs a single statement on the pool, or a sequence as one
	// transaction with #key# placeholders resolved from earlier results.
	Execute(ctx context.Context, b statement.Batch) ([]statement.Result, error)
}
