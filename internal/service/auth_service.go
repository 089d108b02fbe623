package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/config"
	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/repository"
	"github.com/johe/social-app/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// AuthService coordinates credential checks, access-token issuance and the
// refresh-token lifecycle. It keeps no state of its own; all session state
// lives in the refresh token store.
type AuthService struct {
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	issuer      *token.Issuer
	cfg         *config.Config
}

func NewAuthService(userRepo repository.UserRepository, refreshRepo repository.RefreshTokenRepository, issuer *token.Issuer, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		issuer:      issuer,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	taken, err = s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleMember,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Unknown user and wrong password look identical to the caller
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh rotates the presented refresh token and mints a new access token.
// Under concurrent use of the same token value exactly one caller succeeds;
// the rest observe domain.ErrRefreshTokenNotFound.
func (s *AuthService) Refresh(ctx context.Context, refreshValue string) (*AuthResult, error) {
	stored, err := s.refreshRepo.GetByToken(ctx, refreshValue)
	if err != nil {
		return nil, err
	}

	if stored.Expired(time.Now()) {
		// Expired tokens are purged on sight
		if _, err := s.refreshRepo.Delete(ctx, refreshValue); err != nil {
			log.Printf("ERROR [auth.Refresh] failed to purge expired token: %v", err)
		}
		return nil, domain.ErrRefreshTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Owner is gone; the token is worthless
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, err
	}

	newToken, err := s.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshRepo.Rotate(ctx, refreshValue, newToken); err != nil {
		return nil, err
	}

	accessToken, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newToken.Token,
	}, nil
}

// Logout revokes the presented refresh token. It never fails the caller:
// an absent or already-deleted token means the session is gone either way.
func (s *AuthService) Logout(ctx context.Context, refreshValue string) {
	if refreshValue == "" {
		return
	}
	if _, err := s.refreshRepo.Delete(ctx, refreshValue); err != nil {
		log.Printf("ERROR [auth.Logout] failed to delete refresh token: %v", err)
	}
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every refresh token the user holds, ending all other sessions.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, confirmPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrPasswordMismatch
	}
	if newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	return s.refreshRepo.DeleteByUserID(ctx, userID)
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshRepo.Create(ctx, refreshToken); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}

// newRefreshToken builds an unpersisted token record with a 256-bit random value
func (s *AuthService) newRefreshToken(userID uuid.UUID) (*domain.RefreshToken, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	now := time.Now()
	return &domain.RefreshToken{
		Token:     base64.RawURLEncoding.EncodeToString(b),
		UserID:    userID,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt: now,
	}, nil
}
