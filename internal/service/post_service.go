package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, userID uuid.UUID, text string) (*domain.Post, error) {
	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.postRepo.ListAll(ctx)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID)
}

// EditPost updates the text of a post. Only the author may edit; admins can
// use the same path since role is checked against the caller's claims.
func (s *PostService) EditPost(ctx context.Context, postID uuid.UUID, callerID uuid.UUID, callerRole domain.Role, text string) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID != callerID && callerRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	post.Text = text
	post.UpdatedAt = time.Now()
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. Allowed for the author and for admins.
func (s *PostService) DeletePost(ctx context.Context, postID uuid.UUID, callerID uuid.UUID, callerRole domain.Role) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != callerID && callerRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	return s.postRepo.Delete(ctx, postID)
}
