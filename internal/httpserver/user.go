package httpserver

import (
	"errors"
	"net/http"

	"github.com/chenterphai/releasehub/internal/middleware"
	"github.com/chenterphai/releasehub/internal/service"
	"github.com/chenterphai/releasehub/internal/transport"
	"github.com/chenterphai/releasehub/pkg/logging"
	"github.com/labstack/echo/v4"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_me")

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized,
			transport.Fail("Unauthorized", "Access denied, no token provided"))
	}

	user, err := h.Svc.GetCurrentUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound,
				transport.Fail("Not found", "User not found!"))
		}
		l.Error("get_current_user_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError,
			transport.Fail("Internal server error", "Internal server error"))
	}

	return c.JSON(http.StatusOK,
		transport.OK("Success", "User successfully retrieved their data.", user))
}

func (h *UserHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_update_me")

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized,
			transport.Fail("Unauthorized", "Access denied, no token provided"))
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Invalid request body."))
	}

	if errs := req.Validate(); len(errs) > 0 {
		l.Warn("update_user_error", "status", 422, "reason", "validation failed")
		return c.JSON(http.StatusUnprocessableEntity,
			transport.FailWith("Unprocessable Entity", "Validation failed.", map[string]any{"errors": errs}))
	}

	user, err := h.Svc.UpdateCurrentUser(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound,
				transport.Fail("Not found", "User not found!"))
		case errors.Is(err, service.ErrConflict):
			return c.JSON(http.StatusConflict,
				transport.Fail("Conflict", "Username or email already taken."))
		default:
			l.Error("update_user_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError,
				transport.Fail("Internal server error", "Internal server error"))
		}
	}

	return c.JSON(http.StatusOK,
		transport.OK("OK", "User successfully updated!", map[string]any{"data": user}))
}
