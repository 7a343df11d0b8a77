package repo

import (
	"context"

	"github.com/chenterphai/releasehub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateRelease(ctx context.Context, rel *models.Release) error {
	return r.DB.WithContext(ctx).Create(rel).Error
}

func (r *GormRepo) GetRelease(ctx context.Context, id uuid.UUID) (*models.Release, error) {
	var rel models.Release
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rel).Error; err != nil {
		return nil, err
	}
	return &rel, nil
}

// GetPublicReleases lists only public releases, newest first.
func (r *GormRepo) GetPublicReleases(ctx context.Context, offset, limit int) (int64, []models.Release, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Release{}).
		Where("status = ?", models.ReleasePublic)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Release, 0, limit)
	if err := tx.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) SaveRelease(ctx context.Context, rel *models.Release) error {
	return r.DB.WithContext(ctx).Save(rel).Error
}

func (r *GormRepo) DeleteRelease(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Release{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
