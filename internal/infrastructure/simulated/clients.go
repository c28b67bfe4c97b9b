package simulated

import (
	"context"
	"fmt"
	"slices"

	"github.com/conectar/console-gateway/internal/core/domain"
)

const msgClientDeleted = "Cliente deletado com sucesso"

func (b *Backend) ListClients(ctx context.Context) ([]domain.Client, error) {
	if err := b.simulate(ctx, "listClients"); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.clients), nil
}

func (b *Backend) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	if err := b.simulate(ctx, "getClient"); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx := b.clientIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	c := b.clients[idx]
	return &c, nil
}

// CreateClient assigns the next id and stamps both timestamps. Missing status
// and Conecta+ flag default to Pendente and Não, as on the console form.
func (b *Backend) CreateClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error) {
	if err := b.simulate(ctx, "createClient"); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.ClientPending
	}
	if in.ConectaPlus == "" {
		in.ConectaPlus = domain.ConectaPlusNo
	}

	var created domain.Client
	err := b.queue.Do(ctx, "createClient", func() error {
		b.mu.Lock()
		defer b.mu.Unlock()

		created = in.NewClient(b.nextClientID, b.now())
		b.nextClientID++

		next := append(slices.Clone(b.clients), created)
		if err := b.store.SaveClients(ctx, next); err != nil {
			return err
		}
		b.clients = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateClient merges only the provided fields; id and createdAt never change.
func (b *Backend) UpdateClient(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error) {
	if err := b.simulate(ctx, "updateClient"); err != nil {
		return nil, err
	}

	var updated domain.Client
	err := b.queue.Do(ctx, "updateClient", func() error {
		b.mu.Lock()
		defer b.mu.Unlock()

		idx := b.clientIndex(id)
		if idx < 0 {
			return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
		}
		next := slices.Clone(b.clients)
		patch.Apply(&next[idx], b.now())
		if err := b.store.SaveClients(ctx, next); err != nil {
			return err
		}
		b.clients = next
		updated = next[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (b *Backend) DeleteClient(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	if err := b.simulate(ctx, "deleteClient"); err != nil {
		return nil, err
	}

	err := b.queue.Do(ctx, "deleteClient", func() error {
		b.mu.Lock()
		defer b.mu.Unlock()

		idx := b.clientIndex(id)
		if idx < 0 {
			return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
		}
		next := slices.Delete(slices.Clone(b.clients), idx, idx+1)
		if err := b.store.SaveClients(ctx, next); err != nil {
			return err
		}
		b.clients = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.DeleteResult{Success: true, Message: msgClientDeleted}, nil
}

// clientIndex expects b.mu to be held.
func (b *Backend) clientIndex(id int64) int {
	return slices.IndexFunc(b.clients, func(c domain.Client) bool { return c.ID == id })
}
