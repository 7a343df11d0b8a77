package httpserver

import (
	"errors"
	"net/http"

	"github.com/chenterphai/releasehub/internal/search"
	"github.com/chenterphai/releasehub/internal/service"
	"github.com/chenterphai/releasehub/internal/transport"
	"github.com/chenterphai/releasehub/internal/util"
	"github.com/chenterphai/releasehub/pkg/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ReleaseHTTP struct {
	Svc    *service.ReleaseService
	Search *search.ReleaseIndex
}

func (h *ReleaseHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "release_create")

	var req transport.CreateReleaseRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("release_create_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Invalid request body."))
	}

	if errs := req.Validate(); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity,
			transport.FailWith("Unprocessable Entity", "Validation failed.", map[string]any{"errors": errs}))
	}

	rel, err := h.Svc.Create(ctx, req)
	if err != nil {
		l.Error("release_create_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError,
			transport.Fail("Internal server error", "Internal server error"))
	}

	return c.JSON(http.StatusCreated,
		transport.OK("Created", "Release created successfully.", map[string]any{"data": rel}))
}

func (h *ReleaseHTTP) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "release_get_all")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	if page < 1 || size < 1 {
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Page and size must be positive integers"))
	}

	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListPublic(ctx, offset, limit)
	if err != nil {
		l.Error("release_get_all_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError,
			transport.Fail("Internal server error", "Internal server error"))
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	return c.JSON(http.StatusOK, transport.OK("OK", "Release selected successfully.", map[string]any{
		"data": items,
		"pagination": transport.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
			HasNextPage:  int64(offset+limit) < total,
			HasPrevPage:  page > 1,
		},
	}))
}

func (h *ReleaseHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "release_get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("release_get_error", "status", 400, "reason", "invalid id format")
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Invalid release ID format"))
	}

	rel, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound,
				transport.Fail("Not Found", "Release not found"))
		}
		l.Error("release_get_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError,
			transport.Fail("Internal server error", "Internal server error"))
	}

	return c.JSON(http.StatusOK,
		transport.OK("OK", "Release selected successfully.", map[string]any{"data": rel}))
}

func (h *ReleaseHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "release_update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Invalid release ID format"))
	}

	var req transport.UpdateReleaseRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("release_update_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Invalid request body."))
	}

	if errs := req.Validate(); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity,
			transport.FailWith("Unprocessable Entity", "Validation failed.", map[string]any{"errors": errs}))
	}

	rel, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound,
				transport.Fail("Not Found", "Release not found"))
		}
		l.Error("release_update_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError,
			transport.Fail("Internal server error", "Internal server error"))
	}

	return c.JSON(http.StatusOK,
		transport.OK("OK", "A release updated successfully", map[string]any{"data": rel}))
}

func (h *ReleaseHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "release_delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Invalid release ID format"))
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound,
				transport.Fail("Not Found", "Release not found"))
		}
		l.Error("release_delete_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError,
			transport.Fail("Internal server error", "Internal server error"))
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ReleaseHTTP) SearchReleases(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "release_search")

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest,
			transport.Fail("Bad Request", "Query parameter q is required."))
	}
	if !h.Search.Enabled() {
		return c.JSON(http.StatusServiceUnavailable,
			transport.Fail("Service Unavailable", "Search is not available."))
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, hits, err := h.Search.Search(ctx, q, from, limit)
	if err != nil {
		l.Error("release_search_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError,
			transport.Fail("Internal server error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, transport.OK("OK", "Search completed successfully.", map[string]any{
		"total": total,
		"data":  hits,
	}))
}
