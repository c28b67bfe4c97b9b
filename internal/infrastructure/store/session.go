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

const (
	tokenKey = "token"
	userKey  = "user"
)

var _ ports.SessionStore = (*Sessions)(nil)

// Sessions stores the bearer token and the signed-in user next to the
// collections, under the same prefix.
type Sessions struct {
	kv     ports.KVStore
	prefix string
	log    zerolog.Logger
}

func NewSessions(kv ports.KVStore, prefix string, log zerolog.Logger) *Sessions {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Sessions{kv: kv, prefix: prefix, log: log}
}

// Token returns the stored bearer token, or "" when nobody is signed in.
func (s *Sessions) Token(ctx context.Context) (string, error) {
	tok, err := s.kv.Get(ctx, s.prefix+tokenKey)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return tok, nil
}

// CurrentUser returns the stored user, or nil when absent or unreadable.
func (s *Sessions) CurrentUser(ctx context.Context) (*domain.User, error) {
	raw, err := s.kv.Get(ctx, s.prefix+userKey)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read current user: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn().Err(err).Msg("stored session user is corrupt, ignoring")
		return nil, nil
	}
	return &u, nil
}

func (s *Sessions) Save(ctx context.Context, auth domain.AuthResult) error {
	raw, err := json.Marshal(auth.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.kv.Set(ctx, s.prefix+tokenKey, auth.Token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := s.kv.Set(ctx, s.prefix+userKey, string(raw)); err != nil {
		return fmt.Errorf("write session user: %w", err)
	}
	return nil
}

// Clear removes both credentials; both deletes are attempted.
func (s *Sessions) Clear(ctx context.Context) error {
	var result *multierror.Error
	if err := s.kv.Delete(ctx, s.prefix+tokenKey); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.kv.Delete(ctx, s.prefix+userKey); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
