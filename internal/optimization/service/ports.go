package service

import (
	"context"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
)

// SessionStore persists dashboard sessions. Update must apply fn atomically with respect to
// other writers of the same session and must not write anything when fn fails.
// Stores never stamp UpdatedAt; the service sets it inside fn.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// SolverClient calls the external solver service
type SolverClient interface {
	SolveLinear(ctx context.Context, req domain.LinearRequest) (domain.SolverResponse, error)
	SolveTransport(ctx context.Context, req domain.TransportRequest) (domain.SolverResponse, error)
	SolveNetwork(ctx context.Context, req domain.NetworkRequest) (domain.SolverResponse, error)
}
