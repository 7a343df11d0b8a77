package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/chenterphai/releasehub/internal/events"
	"github.com/chenterphai/releasehub/internal/models"
	"github.com/chenterphai/releasehub/internal/repo"
	"github.com/chenterphai/releasehub/internal/util"
	"github.com/chenterphai/releasehub/pkg/hash"
	"github.com/chenterphai/releasehub/pkg/logging"
	"github.com/chenterphai/releasehub/pkg/tokens"
	"gorm.io/gorm"
)

type AuthService struct {
	Repo           *repo.GormRepo
	Tokens         *tokens.Service
	Producer       *events.Producer
	AdminWhitelist []string
}

type SessionResult struct {
	User         models.User
	AccessToken  string
	RefreshToken string
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, email, password, role string) (*SessionResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin && !slices.Contains(s.AdminWhitelist, email) {
		l.Warn("register_rejected", "status", 403, "reason", "email not in admin whitelist")
		return nil, ErrAdminNotAllowed
	}

	taken, err := s.Repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     util.GenUsername(),
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		// Losing a concurrent registration race surfaces here as a
		// unique-constraint violation, not a silent overwrite.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	res, err := s.openSession(ctx, &user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "user_registered", &user)
	l.Info("register_successful", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 404, "reason", "no user for email")
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 422, "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	// Concurrent sessions are allowed: a new login never revokes
	// refresh tokens held by other devices.
	res, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}
	if err := s.Repo.DeleteRefreshToken(ctx, rawRefresh); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	logging.FromContext(ctx).Info("refresh_token_revoked")
	return nil
}

// Refresh exchanges a persisted, still-valid refresh token for a new
// access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (string, error) {
	exists, err := s.Repo.RefreshTokenExists(ctx, rawRefresh)
	if err != nil {
		return "", fmt.Errorf("lookup refresh token: %w", err)
	}
	if !exists {
		// Covers both never-issued and already-revoked tokens; a valid
		// signature alone is not sufficient.
		return "", ErrRefreshNotFound
	}

	claims, err := s.Tokens.VerifyRefreshToken(rawRefresh)
	if err != nil {
		return "", err
	}

	user, err := s.Repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRefreshNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	access, _, err := s.Tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*SessionResult, error) {
	access, _, err := s.Tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, refreshExp, err := s.Tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.Repo.CreateRefreshToken(ctx, refresh, user.ID, refreshExp); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &SessionResult{
		User:         *user,
		AccessToken:  access,
		RefreshToken: refresh,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType string, user *models.User) {
	event := map[string]any{
		"type":     eventType,
		"user_id":  user.ID,
		"username": user.Username,
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicUserEvents, fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", events.TopicUserEvents, "error", err)
	}
}
