package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chenterphai/releasehub/internal/events"
	"github.com/chenterphai/releasehub/internal/models"
	"github.com/chenterphai/releasehub/internal/repo"
	"github.com/chenterphai/releasehub/internal/search"
	"github.com/chenterphai/releasehub/internal/transport"
	"github.com/chenterphai/releasehub/pkg/logging"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReleaseService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Search   *search.ReleaseIndex
}

func (s *ReleaseService) Create(ctx context.Context, req transport.CreateReleaseRequest) (*models.Release, error) {
	status := req.Status
	if status == "" {
		status = models.ReleasePublic
	}

	rel := models.Release{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Status:      status,
	}
	if err := s.Repo.CreateRelease(ctx, &rel); err != nil {
		return nil, fmt.Errorf("create release: %w", err)
	}

	s.afterWrite(ctx, "release_created", &rel)
	return &rel, nil
}

func (s *ReleaseService) Get(ctx context.Context, id uuid.UUID) (*models.Release, error) {
	rel, err := s.Repo.GetRelease(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get release: %w", err)
	}
	return rel, nil
}

func (s *ReleaseService) ListPublic(ctx context.Context, offset, limit int) (int64, []models.Release, error) {
	total, items, err := s.Repo.GetPublicReleases(ctx, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list releases: %w", err)
	}
	return total, items, nil
}

func (s *ReleaseService) Update(ctx context.Context, id uuid.UUID, req transport.UpdateReleaseRequest) (*models.Release, error) {
	rel, err := s.Repo.GetRelease(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get release: %w", err)
	}

	if req.Title != nil {
		rel.Title = *req.Title
	}
	if req.Description != nil {
		rel.Description = *req.Description
	}
	if req.Tags != nil {
		rel.Tags = *req.Tags
	}
	if req.Status != nil {
		rel.Status = *req.Status
	}

	if err := s.Repo.SaveRelease(ctx, rel); err != nil {
		return nil, fmt.Errorf("save release: %w", err)
	}

	s.afterWrite(ctx, "release_updated", rel)
	return rel, nil
}

func (s *ReleaseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteRelease(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete release: %w", err)
	}

	l := logging.FromContext(ctx)
	if err := s.Search.DeleteRelease(ctx, id.String()); err != nil {
		l.Error("search_deindex_error", "release_id", id, "error", err)
	}
	s.publish(ctx, "release_deleted", id.String(), map[string]any{
		"type":       "release_deleted",
		"release_id": id,
	})
	return nil
}

func (s *ReleaseService) afterWrite(ctx context.Context, eventType string, rel *models.Release) {
	l := logging.FromContext(ctx)
	if err := s.Search.IndexRelease(ctx, rel); err != nil {
		l.Error("search_index_error", "release_id", rel.ID, "error", err)
	}
	s.publish(ctx, eventType, rel.ID.String(), map[string]any{
		"type":       eventType,
		"release_id": rel.ID,
		"title":      rel.Title,
		"status":     rel.Status,
	})
}

func (s *ReleaseService) publish(ctx context.Context, eventType, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicReleaseEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error",
			"topic", events.TopicReleaseEvents, "event", eventType, "error", err)
	}
}
