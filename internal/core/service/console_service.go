package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/conectar/console-gateway/internal/api/metrics"
	"github.com/conectar/console-gateway/internal/core/domain"
	"github.com/conectar/console-gateway/internal/core/ports"
)

// SimulatedBackend is the fallback backend. Its dataset can be reset to seeds.
type SimulatedBackend interface {
	ports.Backend
	ResetData(ctx context.Context) error
}

var _ ports.ConsoleService = (*ConsoleService)(nil)

// ConsoleService routes every console operation to the real backend while it
// is presumed online and to the simulated backend otherwise. A failed real
// call is retried against the simulated backend within the same invocation,
// so callers always get a result shaped the same way.
type ConsoleService struct {
	remote    ports.Backend
	simulated SimulatedBackend
	monitor   *HealthMonitor
	sessions  ports.SessionStore
	logger    zerolog.Logger
}

func NewConsoleService(remote ports.Backend, simulated SimulatedBackend, monitor *HealthMonitor, sessions ports.SessionStore, logger zerolog.Logger) *ConsoleService {
	return &ConsoleService{
		remote:    remote,
		simulated: simulated,
		monitor:   monitor,
		sessions:  sessions,
		logger:    logger,
	}
}

// dispatch runs call against the chosen backend. Errors from the simulated
// backend are returned as they are.
func dispatch[T any](ctx context.Context, s *ConsoleService, op string, call func(ports.Backend) (T, error)) (T, error) {
	start := time.Now()

	if s.monitor.Refresh(ctx) {
		res, err := call(s.remote)
		if err == nil {
			observe(op, domain.SourceRemote, nil, start)
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			var zero T
			return zero, ctxErr
		}
		s.monitor.ReportFailure()
		metrics.FallbacksTotal.WithLabelValues(op).Inc()
		s.logger.Warn().Err(err).Str("operation", op).Msg("real backend call failed, using simulated data")
	}

	res, err := call(s.simulated)
	observe(op, domain.SourceSimulated, err, start)
	return res, err
}

func observe(op string, src domain.Source, err error, start time.Time) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.DispatchTotal.WithLabelValues(op, string(src), result).Inc()
	metrics.DispatchDuration.WithLabelValues(op, string(src)).Observe(time.Since(start).Seconds())
}

// ── Session ───────────────────────────────────────────────────────────────────

// Login authenticates and stores the token and user for later calls.
func (s *ConsoleService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	res, err := dispatch(ctx, s, "login", func(b ports.Backend) (*domain.AuthResult, error) {
		return b.Login(ctx, email, password)
	})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, *res); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	s.logger.Info().Int64("user_id", res.User.ID).Msg("user logged in")
	return res, nil
}

func (s *ConsoleService) Register(ctx context.Context, in domain.UserInput) (*domain.AuthResult, error) {
	res, err := dispatch(ctx, s, "register", func(b ports.Backend) (*domain.AuthResult, error) {
		return b.Register(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, *res); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return res, nil
}

func (s *ConsoleService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Me returns the signed-in user as currently known by the serving backend.
func (s *ConsoleService) Me(ctx context.Context) (*domain.User, error) {
	current, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if current == nil {
		return nil, domain.ErrUnauthorized
	}
	return dispatch(ctx, s, "me", func(b ports.Backend) (*domain.User, error) {
		return b.Me(ctx, current.ID)
	})
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *ConsoleService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return dispatch(ctx, s, "listUsers", func(b ports.Backend) ([]domain.User, error) {
		return b.ListUsers(ctx)
	})
}

func (s *ConsoleService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return dispatch(ctx, s, "getUser", func(b ports.Backend) (*domain.User, error) {
		return b.GetUser(ctx, id)
	})
}

func (s *ConsoleService) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	return dispatch(ctx, s, "createUser", func(b ports.Backend) (*domain.User, error) {
		return b.CreateUser(ctx, in)
	})
}

// UpdateUser applies patch and, when the signed-in user edited their own
// record, refreshes the stored session user.
func (s *ConsoleService) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	u, err := dispatch(ctx, s, "updateUser", func(b ports.Backend) (*domain.User, error) {
		return b.UpdateUser(ctx, id, patch)
	})
	if err != nil {
		return nil, err
	}
	s.refreshSessionUser(ctx, *u)
	return u, nil
}

func (s *ConsoleService) refreshSessionUser(ctx context.Context, u domain.User) {
	current, err := s.sessions.CurrentUser(ctx)
	if err != nil || current == nil || current.ID != u.ID {
		return
	}
	token, err := s.sessions.Token(ctx)
	if err != nil || token == "" {
		return
	}
	if err := s.sessions.Save(ctx, domain.AuthResult{User: u, Token: token}); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("failed to refresh session user")
	}
}

func (s *ConsoleService) DeleteUser(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	return dispatch(ctx, s, "deleteUser", func(b ports.Backend) (*domain.DeleteResult, error) {
		return b.DeleteUser(ctx, id)
	})
}

// ── Clients ───────────────────────────────────────────────────────────────────

// ListClients lists clients from the serving backend and narrows them with
// filter locally, whichever backend answered.
func (s *ConsoleService) ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	clients, err := dispatch(ctx, s, "listClients", func(b ports.Backend) ([]domain.Client, error) {
		return b.ListClients(ctx)
	})
	if err != nil {
		return nil, err
	}
	return filterClients(clients, filter), nil
}

func (s *ConsoleService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return dispatch(ctx, s, "getClient", func(b ports.Backend) (*domain.Client, error) {
		return b.GetClient(ctx, id)
	})
}

func (s *ConsoleService) CreateClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error) {
	return dispatch(ctx, s, "createClient", func(b ports.Backend) (*domain.Client, error) {
		return b.CreateClient(ctx, in)
	})
}

func (s *ConsoleService) UpdateClient(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error) {
	return dispatch(ctx, s, "updateClient", func(b ports.Backend) (*domain.Client, error) {
		return b.UpdateClient(ctx, id, patch)
	})
}

func (s *ConsoleService) DeleteClient(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	return dispatch(ctx, s, "deleteClient", func(b ports.Backend) (*domain.DeleteResult, error) {
		return b.DeleteClient(ctx, id)
	})
}

// ── Backend status ────────────────────────────────────────────────────────────

func (s *ConsoleService) Status() domain.BackendStatus {
	return s.monitor.Status()
}

// UsingSimulatedData is true while the real backend is presumed offline.
func (s *ConsoleService) UsingSimulatedData() bool {
	return !s.monitor.Online()
}

func (s *ConsoleService) ForceCheck(ctx context.Context) bool {
	return s.monitor.ForceCheck(ctx)
}

// ResetSimulatedData restores the seed dataset of the simulated backend.
func (s *ConsoleService) ResetSimulatedData(ctx context.Context) error {
	if err := s.simulated.ResetData(ctx); err != nil {
		return fmt.Errorf("reset simulated data: %w", err)
	}
	s.logger.Info().Msg("simulated data reset to defaults")
	return nil
}
