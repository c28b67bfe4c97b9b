package ports

import (
	"context"

	"github.com/conectar/console-gateway/internal/core/domain"
)

// Collection names a persisted record collection.
type Collection string

const (
	CollectionUsers   Collection = "users"
	CollectionClients Collection = "clients"
)

// Snapshot is the full simulated dataset as read from durable storage.
type Snapshot struct {
	Users   []domain.User
	Clients []domain.Client
}

// CollectionStore persists the simulated collections.
type CollectionStore interface {
	Load(ctx context.Context) Snapshot
	SaveUsers(ctx context.Context, users []domain.User) error
	SaveClients(ctx context.Context, clients []domain.Client) error
	Reset(ctx context.Context) (Snapshot, error)
}

// SessionStore keeps the bearer token and the signed-in user.
type SessionStore interface {
	Token(ctx context.Context) (string, error)
	CurrentUser(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, auth domain.AuthResult) error
	Clear(ctx context.Context) error
}
