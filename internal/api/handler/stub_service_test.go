package handler

import (
	"context"

	"github.com/conectar/console-gateway/internal/core/domain"
)

// stubService implements ports.ConsoleService; unset functions panic so a
// test notices unexpected calls.
type stubService struct {
	loginFn        func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	registerFn     func(ctx context.Context, in domain.UserInput) (*domain.AuthResult, error)
	logoutFn       func(ctx context.Context) error
	meFn           func(ctx context.Context) (*domain.User, error)
	listUsersFn    func(ctx context.Context) ([]domain.User, error)
	getUserFn      func(ctx context.Context, id int64) (*domain.User, error)
	createUserFn   func(ctx context.Context, in domain.UserInput) (*domain.User, error)
	updateUserFn   func(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	deleteUserFn   func(ctx context.Context, id int64) (*domain.DeleteResult, error)
	listClientsFn  func(ctx context.Context, f domain.ClientFilter) ([]domain.Client, error)
	getClientFn    func(ctx context.Context, id int64) (*domain.Client, error)
	createClientFn func(ctx context.Context, in domain.ClientInput) (*domain.Client, error)
	updateClientFn func(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error)
	deleteClientFn func(ctx context.Context, id int64) (*domain.DeleteResult, error)

	status    domain.BackendStatus
	simulated bool
	checks    int
	resets    int
}

func (s *stubService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubService) Register(ctx context.Context, in domain.UserInput) (*domain.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubService) Logout(ctx context.Context) error { return s.logoutFn(ctx) }

func (s *stubService) Me(ctx context.Context) (*domain.User, error) { return s.meFn(ctx) }

func (s *stubService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.listUsersFn(ctx)
}

func (s *stubService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubService) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	return s.createUserFn(ctx, in)
}

func (s *stubService) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	return s.updateUserFn(ctx, id, patch)
}

func (s *stubService) DeleteUser(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	return s.deleteUserFn(ctx, id)
}

func (s *stubService) ListClients(ctx context.Context, f domain.ClientFilter) ([]domain.Client, error) {
	return s.listClientsFn(ctx, f)
}

func (s *stubService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return s.getClientFn(ctx, id)
}

func (s *stubService) CreateClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error) {
	return s.createClientFn(ctx, in)
}

func (s *stubService) UpdateClient(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error) {
	return s.updateClientFn(ctx, id, patch)
}

func (s *stubService) DeleteClient(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	return s.deleteClientFn(ctx, id)
}

func (s *stubService) Status() domain.BackendStatus { return s.status }

func (s *stubService) UsingSimulatedData() bool { return s.simulated }

func (s *stubService) ForceCheck(context.Context) bool {
	s.checks++
	return s.status.IsOnline
}

func (s *stubService) ResetSimulatedData(context.Context) error {
	s.resets++
	return nil
}
