package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chenterphai/releasehub/internal/models"
	"github.com/chenterphai/releasehub/internal/repo"
	"github.com/chenterphai/releasehub/internal/transport"
	"github.com/chenterphai/releasehub/pkg/logging"
	"gorm.io/gorm"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) GetCurrentUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateCurrentUser(ctx context.Context, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", id)

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Firstname != nil {
		user.Firstname = *req.Firstname
	}
	if req.Lastname != nil {
		user.Lastname = *req.Lastname
	}
	if req.Website != nil {
		user.SocialLinks.Website = *req.Website
	}
	if req.Facebook != nil {
		user.SocialLinks.Facebook = *req.Facebook
	}
	if req.Instagram != nil {
		user.SocialLinks.Instagram = *req.Instagram
	}
	if req.LinkedIn != nil {
		user.SocialLinks.LinkedIn = *req.LinkedIn
	}
	if req.X != nil {
		user.SocialLinks.X = *req.X
	}
	if req.GitHub != nil {
		user.SocialLinks.GitHub = *req.GitHub
	}
	if req.YouTube != nil {
		user.SocialLinks.YouTube = *req.YouTube
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	l.Info("user_updated")
	return user, nil
}
