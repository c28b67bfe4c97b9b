package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/conectar/console-gateway/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextUser = "user"
	ContextRole = "role"
)

// Auth accepts a request only when its bearer token matches the token of the
// stored session, and injects the session user and role into the context.
func Auth(sessions ports.SessionStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			ctx := c.Request().Context()
			stored, err := sessions.Token(ctx)
			if err != nil {
				log.Error().Err(err).Msg("read session token")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
			}
			if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(parts[1])) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := sessions.CurrentUser(ctx)
			if err != nil {
				log.Error().Err(err).Msg("read session user")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
			}
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session has no user")
			}

			c.Set(ContextUser, user)
			c.Set(ContextRole, string(user.Role))

			return next(c)
		}
	}
}
