// Package store persists the simulated console dataset in a key-value store.
//
// Every collection lives under a fixed key as a JSON array. Reads never fail:
// a missing, unreadable or corrupt key degrades to the seed fixtures, which are
// written back immediately so the next read is consistent.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/conectar/console-gateway/internal/core/domain"
	"github.com/conectar/console-gateway/internal/core/ports"
)

// DefaultPrefix is the application key prefix shared with the browser console.
const DefaultPrefix = "@Conectar:"

var _ ports.CollectionStore = (*Store)(nil)

// Store implements ports.CollectionStore over a ports.KVStore.
type Store struct {
	kv     ports.KVStore
	prefix string
	log    zerolog.Logger
}

// New returns a Store writing under prefix (DefaultPrefix when empty).
func New(kv ports.KVStore, prefix string, log zerolog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{kv: kv, prefix: prefix, log: log}
}

// Key returns the full storage key for a collection.
func (s *Store) Key(c ports.Collection) string {
	return s.prefix + string(c)
}

// Load reads both collections, falling back to seeds per key.
func (s *Store) Load(ctx context.Context) ports.Snapshot {
	users := loadCollection(ctx, s, ports.CollectionUsers, func() []userRecord {
		return toUserRecords(SeedUsers())
	})
	clients := loadCollection(ctx, s, ports.CollectionClients, SeedClients)

	return ports.Snapshot{
		Users:   fromUserRecords(users),
		Clients: clients,
	}
}

// Save writes one collection. records must be []domain.User or []domain.Client
// matching the collection.
func (s *Store) Save(ctx context.Context, c ports.Collection, records any) error {
	switch c {
	case ports.CollectionUsers:
		users, ok := records.([]domain.User)
		if !ok {
			return fmt.Errorf("save %s: unexpected record type %T", c, records)
		}
		return s.write(ctx, c, toUserRecords(users))
	case ports.CollectionClients:
		clients, ok := records.([]domain.Client)
		if !ok {
			return fmt.Errorf("save %s: unexpected record type %T", c, records)
		}
		return s.write(ctx, c, clients)
	default:
		return fmt.Errorf("save: unknown collection %q", c)
	}
}

func (s *Store) SaveUsers(ctx context.Context, users []domain.User) error {
	return s.Save(ctx, ports.CollectionUsers, users)
}

func (s *Store) SaveClients(ctx context.Context, clients []domain.Client) error {
	return s.Save(ctx, ports.CollectionClients, clients)
}

// Reset overwrites both collections with the seed dataset. Both writes are
// always attempted.
func (s *Store) Reset(ctx context.Context) (ports.Snapshot, error) {
	snap := ports.Snapshot{Users: SeedUsers(), Clients: SeedClients()}

	var result *multierror.Error
	if err := s.SaveUsers(ctx, snap.Users); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.SaveClients(ctx, snap.Clients); err != nil {
		result = multierror.Append(result, err)
	}

	s.log.Info().Int("users", len(snap.Users)).Int("clients", len(snap.Clients)).Msg("simulated data reset to seeds")
	return snap, result.ErrorOrNil()
}

func (s *Store) write(ctx context.Context, c ports.Collection, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if err := s.kv.Set(ctx, s.Key(c), string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}
	return nil
}

func loadCollection[T any](ctx context.Context, s *Store, c ports.Collection, seed func() []T) []T {
	raw, err := s.kv.Get(ctx, s.Key(c))
	if err == nil {
		var out []T
		if jsonErr := json.Unmarshal([]byte(raw), &out); jsonErr == nil && out != nil {
			return out
		} else if jsonErr != nil {
			err = fmt.Errorf("decode: %w", jsonErr)
		} else {
			err = errors.New("decode: null collection")
		}
	}

	if !errors.Is(err, ports.ErrKeyNotFound) {
		s.log.Warn().Err(err).Str("collection", string(c)).Msg("stored collection unusable, falling back to seed data")
	}

	data := seed()
	if werr := s.write(ctx, c, data); werr != nil {
		s.log.Warn().Err(werr).Str("collection", string(c)).Msg("failed to persist seed data")
	}
	return data
}
