package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/conectar/console-gateway/internal/core/domain"
)

var errEmptyBody = fmt.Errorf("empty response body: %w", domain.ErrNetwork)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return record[domain.AuthResult](ctx, c, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
}

func (c *Client) Register(ctx context.Context, in domain.UserInput) (*domain.AuthResult, error) {
	return record[domain.AuthResult](ctx, c, http.MethodPost, "/auth/register", in)
}

// Me ignores id: the backend resolves the user from the bearer token.
func (c *Client) Me(ctx context.Context, _ int64) (*domain.User, error) {
	return record[domain.User](ctx, c, http.MethodGet, "/users/me", nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	return list[domain.User](ctx, c, "/users")
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return record[domain.User](ctx, c, http.MethodGet, userPath(id), nil)
}

// CreateUser goes through the registration endpoint and keeps only the user.
func (c *Client) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	res, err := c.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	return record[domain.User](ctx, c, http.MethodPatch, userPath(id), patch)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	return c.delete(ctx, userPath(id), "Usuário deletado com sucesso")
}

func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	return list[domain.Client](ctx, c, "/clients")
}

func (c *Client) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return record[domain.Client](ctx, c, http.MethodGet, clientPath(id), nil)
}

func (c *Client) CreateClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error) {
	return record[domain.Client](ctx, c, http.MethodPost, "/clients", in)
}

func (c *Client) UpdateClient(ctx context.Context, id int64, patch domain.ClientPatch) (*domain.Client, error) {
	return record[domain.Client](ctx, c, http.MethodPatch, clientPath(id), patch)
}

func (c *Client) DeleteClient(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	return c.delete(ctx, clientPath(id), "Cliente deletado com sucesso")
}

// delete normalizes bodyless 2xx answers (e.g. 204) into a DeleteResult so
// callers see the same shape as the simulated backend.
func (c *Client) delete(ctx context.Context, path, okMessage string) (*domain.DeleteResult, error) {
	var out domain.DeleteResult
	hasBody, err := c.do(ctx, http.MethodDelete, path, nil, &out)
	if err != nil {
		return nil, err
	}
	if !hasBody || (!out.Success && out.Message == "") {
		out = domain.DeleteResult{Success: true, Message: okMessage}
	}
	return &out, nil
}

// record calls an endpoint that must answer with a single object.
func record[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	hasBody, err := c.do(ctx, method, path, body, &out)
	if err != nil {
		return nil, err
	}
	if !hasBody {
		return nil, fmt.Errorf("%s %s: %w", method, path, errEmptyBody)
	}
	return &out, nil
}

// list always returns a non-nil slice, also for empty or null bodies.
func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func userPath(id int64) string   { return fmt.Sprintf("/users/%d", id) }
func clientPath(id int64) string { return fmt.Sprintf("/clients/%d", id) }
