package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chenterphai/releasehub/internal/middleware"
	"github.com/chenterphai/releasehub/internal/models"
	"github.com/chenterphai/releasehub/internal/repo"
	"github.com/chenterphai/releasehub/internal/service"
	"github.com/chenterphai/releasehub/pkg/logging"
	"github.com/chenterphai/releasehub/pkg/tokens"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	Store  *repo.GormRepo
	Tokens *tokens.Service
}

type envelope struct {
	Status struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
		Msg    string `json:"msg"`
	} `json:"status"`
	Content map[string]any `json:"content"`
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Release{}))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repo.New(initTestDB(t))
	tokenSvc := &tokens.Service{
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}

	authSvc := &service.AuthService{
		Repo:           store,
		Tokens:         tokenSvc,
		AdminWhitelist: []string{"boss@example.com"},
	}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		UserHandler:    &UserHTTP{Svc: &service.UserService{Repo: store}},
		ReleaseHandler: &ReleaseHTTP{Svc: &service.ReleaseService{Repo: store}},
		Auth:           middleware.NewAuth(tokenSvc, store),
		Logger:         logging.New("error"),
	})

	return &testEnv{T: t, E: e, Store: store, Tokens: tokenSvc}
}

type reqOpt func(*http.Request)

func withBearer(token string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
}

func withCookie(c *http.Cookie) reqOpt {
	return func(r *http.Request) {
		if c != nil {
			r.AddCookie(c)
		}
	}
}

func withHeader(key, value string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func (env *testEnv) do(method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	env.T.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder) envelope {
	env.T.Helper()

	var body envelope
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// registerUser runs the real register flow and hands back the access
// token and the refresh cookie the server set.
func (env *testEnv) registerUser(email, password, role string) (string, *http.Cookie) {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	})
	require.Equal(env.T, http.StatusCreated, rec.Code, "register failed: %s", rec.Body.String())

	body := env.decode(rec)
	data, ok := body.Content["data"].(map[string]any)
	require.True(env.T, ok, "expected content.data in register response")
	access, _ := data["accessToken"].(string)
	require.NotEmpty(env.T, access)

	var refresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refreshToken" {
			refresh = c
		}
	}
	require.NotNil(env.T, refresh, "expected refreshToken cookie")
	return access, refresh
}
