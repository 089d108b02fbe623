package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/repository"
)

// UserService covers profile reads and updates plus the admin-only user
// management operations. Registration and password changes live in
// AuthService because they touch credentials.
type UserService struct {
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
}

func NewUserService(userRepo repository.UserRepository, refreshRepo repository.RefreshTokenRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
	}
}

type UpdateUserInput struct {
	Username *string
	Email    *string
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListMembers returns all users holding the MEMBER role, for the public user list
func (s *UserService) ListMembers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListByRole(ctx, domain.RoleMember)
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		taken, err := s.userRepo.ExistsByUsername(ctx, *input.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
		user.Username = *input.Username
	}

	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *input.Email
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes the account and revokes every session it holds
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.refreshRepo.DeleteByUserID(ctx, id); err != nil {
		log.Printf("ERROR [user.DeleteUser] failed to revoke sessions for user %s: %v", id, err)
	}

	return s.userRepo.Delete(ctx, id)
}

/* Admin operations */

type AdminUpdateUserInput struct {
	Username *string
	Email    *string
	Role     *domain.Role
}

func (s *UserService) ListAllUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListAll(ctx)
}

func (s *UserService) AdminUpdateUser(ctx context.Context, id uuid.UUID, input AdminUpdateUserInput) (*domain.User, error) {
	updated, err := s.UpdateUser(ctx, id, UpdateUserInput{
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		return nil, err
	}

	if input.Role != nil && *input.Role != updated.Role {
		if !input.Role.IsValid() {
			return nil, domain.ErrInvalidRole
		}
		updated.Role = *input.Role
		updated.UpdatedAt = time.Now()
		if err := s.userRepo.Update(ctx, updated); err != nil {
			return nil, err
		}
		log.Printf("INFO [user.AdminUpdateUser] role of user %s changed to %s", id, updated.Role)
	}

	return updated, nil
}
