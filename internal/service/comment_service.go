package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) ListComments(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByPostID(ctx, postID)
}

func (s *CommentService) AddComment(ctx context.Context, postID, userID uuid.UUID, text string) (*domain.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ReplyToComment adds a comment whose parent is another comment on the same post
func (s *CommentService) ReplyToComment(ctx context.Context, postID, parentID, userID uuid.UUID, text string) (*domain.Comment, error) {
	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.PostID != postID {
		return nil, domain.ErrCommentNotFound
	}

	comment := &domain.Comment{
		ID:              uuid.New(),
		PostID:          postID,
		UserID:          userID,
		ParentCommentID: &parentID,
		Text:            text,
		CreatedAt:       time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
