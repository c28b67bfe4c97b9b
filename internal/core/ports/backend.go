package ports

import (
	"context"

	"github.com/conectar/console-gateway/internal/core/domain"
)

// Backend is the contract shared by the real REST backend and the simulated
// one. Results must be shaped identically whichever implementation answers.
type Backend interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, in domain.UserInput) (*domain.AuthResult, error)

	Me(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) (*domain.DeleteResult, error)

	ListClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	CreateClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error)
	DeleteClient(ctx context.Context, id int64) (*domain.DeleteResult, error)
}

// HealthProber issues a single liveness probe against the real backend.
type HealthProber interface {
	Probe(ctx context.Context) error
}
