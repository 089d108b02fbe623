package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
	"gorm.io/gorm"
)

type friendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *friendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) Create(ctx context.Context, friendship *domain.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

func (r *friendshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Friendship, error) {
	var friendship domain.Friendship
	err := r.db.WithContext(ctx).First(&friendship, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFriendshipNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// GetByPair looks up a friendship between two users in either direction
func (r *friendshipRepository) GetByPair(ctx context.Context, a, b uuid.UUID) (*domain.Friendship, error) {
	var friendship domain.Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFriendshipNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

func (r *friendshipRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Friendship, error) {
	var friendships []*domain.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Addressee").
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&friendships).Error
	return friendships, err
}

func (r *friendshipRepository) Update(ctx context.Context, friendship *domain.Friendship) error {
	return r.db.WithContext(ctx).Save(friendship).Error
}

func (r *friendshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Friendship{}, "id = ?", id).Error
}
