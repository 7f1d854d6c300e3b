package ports

import (
	"context"
)

// ExternalService is the base interface for anything the health check can
// probe.
type ExternalService interface {
	// Health checks if the external service is reachable.
	Health(ctx context.Context) error
}
