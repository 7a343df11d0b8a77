package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEcho(rl *RateLimiter) *echo.Echo {
	e := echo.New()
	e.GET("/login", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, rl.Middleware)
	return e
}

func hit(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	e := newLimitedEcho(NewRateLimiter(client, 3, time.Minute, "auth"))

	for i := 0; i < 3; i++ {
		rec := hit(e, "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := hit(e, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests, please try again later.")

	// other clients keep their own window
	rec = hit(e, "10.0.0.2")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	e := newLimitedEcho(NewRateLimiter(client, 1, time.Minute, "auth"))

	require.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(e, "10.0.0.1").Code)

	mr.FastForward(time.Minute + time.Second)

	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	e := newLimitedEcho(NewRateLimiter(client, 1, time.Minute, "auth"))

	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	}
}

func TestRateLimiter_NilPassthrough(t *testing.T) {
	t.Parallel()

	var rl *RateLimiter
	e := newLimitedEcho(rl)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	}
}
