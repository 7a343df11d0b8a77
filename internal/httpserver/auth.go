package httpserver

import (
	"errors"
	"net/http"

	"github.com/chenterphai/releasehub/internal/service"
	"github.com/chenterphai/releasehub/internal/transport"
	"github.com/chenterphai/releasehub/pkg/cookies"
	"github.com/chenterphai/releasehub/pkg/logging"
	"github.com/chenterphai/releasehub/pkg/tokens"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Invalid request body."))
	}

	if errs := req.Validate(); len(errs) > 0 {
		l.Warn("register_error", "status", 422, "reason", "validation failed")
		return c.JSON(http.StatusUnprocessableEntity,
			transport.FailWith("Unprocessable Entity", "Validation failed.", map[string]any{"errors": errs}))
	}

	res, err := h.Svc.Register(ctx, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminNotAllowed):
			return c.JSON(http.StatusForbidden,
				transport.Fail("Forbidden", "You cannot register as an admin"))
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusUnprocessableEntity,
				transport.FailWith("Unprocessable Entity", "Validation failed.",
					map[string]any{"errors": map[string]string{"email": "User already exists."}}))
		case errors.Is(err, service.ErrConflict):
			// Lost a concurrent registration race at the unique index.
			return c.JSON(http.StatusConflict,
				transport.Fail("Conflict", "User already exists."))
		default:
			l.Error("register_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError,
				transport.Fail("Internal server error", "Internal Server Error"))
		}
	}

	c.SetCookie(cookies.Refresh(res.RefreshToken, res.RefreshExp, h.SecureCookie))

	return c.JSON(http.StatusCreated, transport.OK("success", "New user created!", map[string]any{
		"data": transport.AuthUserData{
			Username:    res.User.Username,
			Email:       res.User.Email,
			Role:        res.User.Role,
			AccessToken: res.AccessToken,
		},
	}))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Invalid request body."))
	}

	if errs := req.Validate(); len(errs) > 0 {
		l.Warn("login_error", "status", 422, "reason", "validation failed")
		return c.JSON(http.StatusUnprocessableEntity,
			transport.FailWith("Unprocessable Entity", "Validation failed.", map[string]any{"errors": errs}))
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		// Same public text for an unknown email and a wrong password:
		// the login endpoint must not confirm whether an email exists.
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound,
				transport.Fail("Not Found", "User email or password is invalid."))
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnprocessableEntity,
				transport.Fail("Unprocessable Entity", "User email or password is invalid."))
		default:
			l.Error("login_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError,
				transport.Fail("Internal server error", "Internal Server Error"))
		}
	}

	c.SetCookie(cookies.Refresh(res.RefreshToken, res.RefreshExp, h.SecureCookie))

	return c.JSON(http.StatusCreated, transport.OK("success", "You have successfully logged in.", map[string]any{
		"data": transport.AuthUserData{
			Username:    res.User.Username,
			Email:       res.User.Email,
			Role:        res.User.Role,
			AccessToken: res.AccessToken,
		},
	}))
}

func (h *AuthHTTP) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	cookie, err := c.Cookie(cookies.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized,
			transport.Fail("Unauthorized", "Invalid refresh token"))
	}

	access, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshNotFound):
			return c.JSON(http.StatusUnauthorized,
				transport.Fail("Unauthorized", "Invalid refresh token"))
		case errors.Is(err, tokens.ErrTokenExpired):
			return c.JSON(http.StatusUnauthorized,
				transport.Fail("Unauthorized", "Refresh token expired, please login again."))
		case errors.Is(err, tokens.ErrTokenInvalid):
			return c.JSON(http.StatusUnauthorized,
				transport.Fail("Unauthorized", "Invalid refresh token."))
		default:
			l.Error("refresh_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError,
				transport.Fail("Internal server error", "Internal Server Error"))
		}
	}

	return c.JSON(http.StatusOK, transport.OK("Success", "Refreshed token successfully.", map[string]any{
		"accessToken": access,
	}))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if cookie, err := c.Cookie(cookies.RefreshCookieName); err == nil && cookie.Value != "" {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			l.Error("logout_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError,
				transport.Fail("Internal server error", "Internal Server Error"))
		}
	}

	c.SetCookie(cookies.ClearRefresh(h.SecureCookie))
	return c.NoContent(http.StatusNoContent)
}
