package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
}

// RefreshTokenRepository persists opaque refresh tokens. The token value is
// the primary key, which is what makes Rotate and Delete race-safe: the
// database resolves concurrent use of the same value to a single winner.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, value string) (*domain.RefreshToken, error)
	// Rotate atomically replaces oldValue with newToken. Returns
	// domain.ErrRefreshTokenNotFound when another caller already consumed
	// oldValue; in that case newToken is not persisted.
	Rotate(ctx context.Context, oldValue string, newToken *domain.RefreshToken) error
	// Delete removes a token by value and reports whether a record existed
	Delete(ctx context.Context, value string) (bool, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error)
	ListAll(ctx context.Context) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	GetByPostID(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error)
}

type FriendshipRepository interface {
	Create(ctx context.Context, friendship *domain.Friendship) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Friendship, error)
	GetByPair(ctx context.Context, a, b uuid.UUID) (*domain.Friendship, error)
	GetForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Friendship, error)
	Update(ctx context.Context, friendship *domain.Friendship) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Post         PostRepository
	Comment      CommentRepository
	Friendship   FriendshipRepository
}
