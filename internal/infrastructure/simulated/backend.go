// Package simulated is an in-process stand-in for the Conectar REST backend.
//
// It serves the same operations with the same result shapes, keeps its
// collections in memory and writes every mutation through to a
// ports.CollectionStore. Each call first sleeps for Options.Delay and then
// fails with domain.ErrSimulatedFailure with probability Options.FailureRate.
package simulated

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/conectar/console-gateway/internal/api/metrics"
	"github.com/conectar/console-gateway/internal/core/domain"
	"github.com/conectar/console-gateway/internal/core/ports"
	"github.com/conectar/console-gateway/internal/infrastructure/queue"
)

const (
	DefaultDelay       = 500 * time.Millisecond
	DefaultFailureRate = 0.05
	defaultTokenTTL    = 24 * time.Hour
	defaultSecret      = "conectar-simulated"
)

// Options tunes latency, fault injection and token issuance.
// Zero Delay and zero FailureRate disable the respective behavior.
type Options struct {
	Delay       time.Duration
	FailureRate float64
	JWTSecret   string
	TokenTTL    time.Duration

	// Rand returns a number in [0,1). Defaults to math/rand/v2.
	Rand func() float64
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

// DefaultOptions returns the demo settings: 500ms latency, 5% failures.
func DefaultOptions() Options {
	return Options{Delay: DefaultDelay, FailureRate: DefaultFailureRate}
}

var _ ports.Backend = (*Backend)(nil)

// Backend implements ports.Backend on local state.
type Backend struct {
	store ports.CollectionStore
	queue *queue.Serial
	opts  Options
	log   zerolog.Logger

	mu           sync.RWMutex
	users        []domain.User
	clients      []domain.Client
	nextUserID   int64
	nextClientID int64
}

// New loads the dataset from store. q must already be started.
func New(ctx context.Context, store ports.CollectionStore, q *queue.Serial, opts Options, log zerolog.Logger) *Backend {
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = defaultSecret
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}

	b := &Backend{store: store, queue: q, opts: opts, log: log}
	b.apply(store.Load(ctx))
	return b
}

// Reload re-reads the dataset from the store and recomputes the id counters.
func (b *Backend) Reload(ctx context.Context) error {
	return b.queue.Do(ctx, "reload", func() error {
		b.apply(b.store.Load(ctx))
		return nil
	})
}

// ResetData restores the seed fixtures in the store and in memory.
func (b *Backend) ResetData(ctx context.Context) error {
	return b.queue.Do(ctx, "reset", func() error {
		snap, err := b.store.Reset(ctx)
		if err != nil {
			return fmt.Errorf("reset simulated data: %w", err)
		}
		b.apply(snap)
		return nil
	})
}

// apply swaps in a snapshot. Next ids are max(id)+1 and never persisted.
func (b *Backend) apply(snap ports.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.users = snap.Users
	b.clients = snap.Clients
	b.nextUserID = 1
	for _, u := range b.users {
		if u.ID >= b.nextUserID {
			b.nextUserID = u.ID + 1
		}
	}
	b.nextClientID = 1
	for _, c := range b.clients {
		if c.ID >= b.nextClientID {
			b.nextClientID = c.ID + 1
		}
	}
}

// simulate emulates network latency and random transient failures.
func (b *Backend) simulate(ctx context.Context, op string) error {
	if b.opts.Delay > 0 {
		t := time.NewTimer(b.opts.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if b.opts.FailureRate > 0 && b.opts.Rand() < b.opts.FailureRate {
		metrics.SimulatedFaultsTotal.WithLabelValues(op).Inc()
		b.log.Debug().Str("operation", op).Msg("injecting simulated failure")
		return fmt.Errorf("%s: %w", op, domain.ErrSimulatedFailure)
	}
	return nil
}

func (b *Backend) now() time.Time {
	return b.opts.Now()
}

func (b *Backend) issueToken(u domain.User) (string, error) {
	now := b.now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(u.ID, 10),
		"email": u.Email,
		"role":  string(u.Role),
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(b.opts.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(b.opts.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
