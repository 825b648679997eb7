package server

import (
	"context"

	"github.com/preston-bernstein/esports-dashboard/internal/refresh"
)

// Controller defines the refresh controller lifecycle needed by the server.
type Controller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() refresh.Status
}
