package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
	"gorm.io/gorm"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *refreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, value string) (*domain.RefreshToken, error) {
	var token domain.RefreshToken
	err := r.db.WithContext(ctx).First(&token, "token = ?", value).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Rotate inserts the replacement and deletes the old token in one
// transaction. The delete's affected-row count decides the winner when two
// requests present the same token: the loser's transaction rolls back, so
// its replacement never becomes visible.
func (r *refreshTokenRepository) Rotate(ctx context.Context, oldValue string, newToken *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newToken).Error; err != nil {
			return err
		}

		res := tx.Delete(&domain.RefreshToken{}, "token = ?", oldValue)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRefreshTokenNotFound
		}

		return nil
	})
}

func (r *refreshTokenRepository) Delete(ctx context.Context, value string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.RefreshToken{}, "token = ?", value)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.RefreshToken{}, "user_id = ?", userID).Error
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.RefreshToken{}, "expires_at <= ?", now)
	return res.RowsAffected, res.Error
}
