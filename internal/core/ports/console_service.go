package ports

import (
	"context"

	"github.com/conectar/console-gateway/internal/core/domain"
)

// ConsoleService is what the console surfaces call. Every domain operation is
// routed to the real backend or the simulated one behind this interface.
type ConsoleService interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, in domain.UserInput) (*domain.AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) (*domain.DeleteResult, error)

	ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	CreateClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error)
	DeleteClient(ctx context.Context, id int64) (*domain.DeleteResult, error)

	Status() domain.BackendStatus
	UsingSimulatedData() bool
	ForceCheck(ctx context.Context) bool
	ResetSimulatedData(ctx context.Context) error
}
