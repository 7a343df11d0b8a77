package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/chenterphai/releasehub/internal/repo"
	"github.com/chenterphai/releasehub/internal/transport"
	"github.com/chenterphai/releasehub/pkg/logging"
	"github.com/chenterphai/releasehub/pkg/tokens"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ContextUserID is the echo context key the authenticated user id is
// stored under for downstream handlers.
const ContextUserID = "userID"

type Auth struct {
	Tokens *tokens.Service
	Repo   *repo.GormRepo
}

func NewAuth(ts *tokens.Service, r *repo.GormRepo) *Auth {
	return &Auth{Tokens: ts, Repo: r}
}

// Authenticate verifies the Bearer access token and resolves the
// caller's user id. It does not touch the database; role checks are
// Authorize's job.
func (m *Auth) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.JSON(http.StatusUnauthorized,
				transport.Fail("Unauthorized", "Access denied, no token provided"))
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if raw == "" {
			return c.JSON(http.StatusUnauthorized,
				transport.Fail("Unauthorized", "Access denied, token malformed"))
		}

		claims, err := m.Tokens.VerifyAccessToken(raw)
		if err != nil {
			switch {
			case errors.Is(err, tokens.ErrTokenExpired):
				return c.JSON(http.StatusUnauthorized,
					transport.Fail("Unauthorized", "Access token expired, request a new one with refresh token"))
			case errors.Is(err, tokens.ErrTokenInvalid):
				return c.JSON(http.StatusUnauthorized,
					transport.Fail("Unauthorized", "Access token invalid."))
			default:
				logging.FromContext(c.Request().Context()).Error("authenticate_error", "error", err)
				return c.JSON(http.StatusInternalServerError,
					transport.Fail("Internal server error", "Internal Server Error"))
			}
		}

		c.Set(ContextUserID, claims.UserID)
		return next(c)
	}
}

// Authorize re-fetches the user row on every request instead of
// trusting the role baked into the access token, so a demoted user
// loses access as soon as the row changes.
func (m *Auth) Authorize(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := c.Get(ContextUserID).(uint)
			if !ok {
				return c.JSON(http.StatusUnauthorized,
					transport.Fail("Unauthorized", "Access denied, no token provided"))
			}

			user, err := m.Repo.GetUserByID(ctx, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return c.JSON(http.StatusNotFound,
						transport.Fail("Not found", "User not found"))
				}
				logging.FromContext(ctx).Error("authorize_error", "user_id", userID, "error", err)
				return c.JSON(http.StatusInternalServerError,
					transport.Fail("Internal server error", "Internal server error"))
			}

			if !slices.Contains(roles, user.Role) {
				return c.JSON(http.StatusForbidden,
					transport.Fail("Forbidden", "Access denied, insufficient permissions"))
			}

			return next(c)
		}
	}
}

// UserID reads the id Authenticate stored on the context.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserID).(uint)
	return id, ok
}
