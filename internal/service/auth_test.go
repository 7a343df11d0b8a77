package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chenterphai/releasehub/internal/models"
	"github.com/chenterphai/releasehub/internal/repo"
	"github.com/chenterphai/releasehub/pkg/tokens"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Release{}))
	return db
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	return &AuthService{
		Repo: repo.New(newTestDB(t)),
		Tokens: &tokens.Service{
			AccessSecret:  []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    24 * time.Hour,
		},
		AdminWhitelist: []string{"boss@example.com"},
	}
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "alice@example.com", "secret123", "")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.User.Username)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	var stored models.User
	require.NoError(t, svc.Repo.DB.Where("email = ?", "alice@example.com").First(&stored).Error)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	exists, err := svc.Repo.RefreshTokenExists(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "secret123", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob@example.com", "secret123", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.User{}).Where("email = ?", "bob@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Register_RaceLoser(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	db := svc.Repo.DB

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// Land a competing registration between the email pre-check and
	// the insert, so the unique index decides the winner.
	injected := false
	err = db.Callback().Create().Before("gorm:begin_transaction").
		Register("inject_competing_user", func(tx *gorm.DB) {
			if injected {
				return
			}
			if _, ok := tx.Statement.Dest.(*models.User); !ok {
				return
			}
			injected = true
			winner := models.User{
				Username:     "user-winner",
				Email:        "race@example.com",
				PasswordHash: "x",
				Role:         models.RoleUser,
			}
			require.NoError(t, db.Create(&winner).Error)
		})
	require.NoError(t, err)

	_, err = svc.Register(ctx, "race@example.com", "secret123", "")
	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, injected)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "race@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Register_AdminGate(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "mallory@example.com", "secret123", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrAdminNotAllowed)

	res, err := svc.Register(ctx, "boss@example.com", "secret123", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol@example.com", "secret123", "")
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "carol@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, "carol@example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEmpty(t, res.RefreshToken)

		claims, err := svc.Tokens.VerifyAccessToken(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, claims.UserID)
	})
}

func TestAuthService_Login_ConcurrentSessions(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "dave@example.com", "secret123", "")
	require.NoError(t, err)

	login, err := svc.Login(ctx, "dave@example.com", "secret123")
	require.NoError(t, err)

	// A fresh login must not revoke tokens held by other sessions.
	for _, raw := range []string{reg.RefreshToken, login.RefreshToken} {
		exists, err := svc.Repo.RefreshTokenExists(ctx, raw)
		require.NoError(t, err)
		assert.True(t, exists)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "erin@example.com", "secret123", "")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.Tokens.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "frank@example.com", "secret123", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RefreshToken))

	// The signature is still cryptographically valid; the missing
	// record alone must reject the exchange.
	_, err = svc.Tokens.VerifyRefreshToken(res.RefreshToken)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	svc.Tokens.RefreshTTL = -time.Minute
	ctx := context.Background()

	res, err := svc.Register(ctx, "grace@example.com", "secret123", "")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, tokens.ErrTokenExpired)
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "heidi@example.com", "secret123", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RefreshToken))
	require.NoError(t, svc.Logout(ctx, res.RefreshToken))
	require.NoError(t, svc.Logout(ctx, ""))
}
