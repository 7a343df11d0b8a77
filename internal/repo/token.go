package repo

import (
	"context"
	"time"

	"github.com/chenterphai/releasehub/internal/models"
	"github.com/chenterphai/releasehub/pkg/tokens"
)

func (r *GormRepo) CreateRefreshToken(ctx context.Context, raw string, userID uint, expiresAt time.Time) error {
	record := models.RefreshToken{
		Token:     tokens.Sha256Hex(raw),
		UserID:    userID,
		ExpiresAt: expiresAt.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&record).Error
}

func (r *GormRepo) RefreshTokenExists(ctx context.Context, raw string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(raw)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteRefreshToken is idempotent: deleting a token that was never
// stored, or was already revoked, is not an error.
func (r *GormRepo) DeleteRefreshToken(ctx context.Context, raw string) error {
	return r.DB.WithContext(ctx).
		Where("token = ?", tokens.Sha256Hex(raw)).
		Delete(&models.RefreshToken{}).Error
}

func (r *GormRepo) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now().Unix()).
		Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
