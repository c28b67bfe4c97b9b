// Package remote is the HTTP client for the real Conectar REST backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"

	"github.com/conectar/console-gateway/internal/core/domain"
	"github.com/conectar/console-gateway/internal/core/ports"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultHealthTimeout = 3 * time.Second
	maxErrorBody         = 4 << 10
)

// Config holds the connection settings of the real backend.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	HealthTimeout time.Duration
}

var (
	_ ports.Backend      = (*Client)(nil)
	_ ports.HealthProber = (*Client)(nil)
)

// Client implements ports.Backend and ports.HealthProber over HTTP. The bearer
// token is read from the session store on every request; a 401 answer clears it.
type Client struct {
	http          *http.Client
	baseURL       string
	healthTimeout time.Duration
	sessions      ports.SessionStore
	log           zerolog.Logger
}

func New(cfg Config, sessions ports.SessionStore, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	healthTimeout := cfg.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = defaultHealthTimeout
	}

	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout

	return &Client{
		http:          hc,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		healthTimeout: healthTimeout,
		sessions:      sessions,
		log:           log,
	}
}

// StatusError is a non-2xx answer from the backend. It unwraps to
// domain.ErrNetwork, and additionally to domain.ErrUnauthorized on 401.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Unwrap() []error {
	if e.StatusCode == http.StatusUnauthorized {
		return []error{domain.ErrUnauthorized, domain.ErrNetwork}
	}
	return []error{domain.ErrNetwork}
}

// Probe checks GET /health with the short health timeout. Anything other
// than 200 is a failure.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health probe: %w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Method: http.MethodGet, Path: "/health", StatusCode: resp.StatusCode}
	}
	return nil
}

// do sends body as JSON and decodes a JSON answer into out. It reports
// whether the response carried a body; an empty body and a JSON null both
// count as none and leave out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (bool, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.sessions.Token(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not read session token, sending request unauthenticated")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.expireSession(ctx)
		}
		return false, statusErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%s %s: read body: %w: %w", method, path, domain.ErrNetwork, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, nil
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return true, fmt.Errorf("%s %s: decode body: %w: %w", method, path, domain.ErrNetwork, err)
		}
	}
	return true, nil
}

// expireSession drops stored credentials after a 401 so the console has to
// sign in again.
func (c *Client) expireSession(ctx context.Context) {
	c.log.Warn().Msg("backend rejected credentials, clearing session")
	if err := c.sessions.Clear(ctx); err != nil {
		c.log.Error().Err(err).Msg("failed to clear session after 401")
	}
}

func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
