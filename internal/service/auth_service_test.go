package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/repository"
	"github.com/johe/social-app/internal/repository/postgres"
	"github.com/johe/social-app/internal/service"
	"github.com/johe/social-app/internal/testutil"
	"github.com/johe/social-app/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*service.AuthService, *repository.Repositories, *testutil.TestDB, *token.Issuer) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	return service.NewAuthService(repos.User, repos.RefreshToken, issuer, cfg), repos, testDB, issuer
}

func TestAuthService_Register(t *testing.T) {
	authService, repos, testDB, issuer := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Email:           "alice@x.com",
				Username:        "alice",
				Password:        "password123",
				ConfirmPassword: "password123",
			},
		},
		{
			name: "password confirmation mismatch",
			input: service.RegisterInput{
				Email:           "bob@x.com",
				Username:        "bob",
				Password:        "password123",
				ConfirmPassword: "password124",
			},
			wantErr: domain.ErrPasswordMismatch,
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Email:           "taken@x.com",
				Username:        "freshname",
				Password:        "password123",
				ConfirmPassword: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("taken@x.com").Build(t, testDB.DB)
			},
			wantErr: domain.ErrEmailTaken,
		},
		{
			name: "duplicate username",
			input: service.RegisterInput{
				Email:           "fresh@x.com",
				Username:        "takenname",
				Password:        "password123",
				ConfirmPassword: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().WithUsername("takenname").Build(t, testDB.DB)
			},
			wantErr: domain.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			result, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.RoleMember, result.User.Role)
			assert.NotEqual(t, tt.input.Password, result.User.PasswordHash)
			assert.NotEmpty(t, result.RefreshToken)

			// Access token claims decode back to the new identity
			claims, err := issuer.Validate(result.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, result.User.ID, claims.UserID)
			assert.Equal(t, domain.RoleMember, claims.Role)

			// Refresh token is persisted with a future expiry
			stored, err := repos.RefreshToken.GetByToken(ctx, result.RefreshToken)
			require.NoError(t, err)
			assert.True(t, stored.ExpiresAt.After(time.Now()))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _, testDB, issuer := newAuthService(t)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().WithUsername("loginuser").Build(t, testDB.DB)

	t.Run("successful login", func(t *testing.T) {
		result, err := authService.Login(ctx, user.Username, password)
		require.NoError(t, err)

		claims, err := issuer.Validate(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Role, claims.Role)
		assert.NotEmpty(t, result.RefreshToken)
	})

	t.Run("wrong password creates no session", func(t *testing.T) {
		before := testDB.CountRefreshTokens(t)

		result, err := authService.Login(ctx, user.Username, "wrongpassword")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Nil(t, result)

		assert.Equal(t, before, testDB.CountRefreshTokens(t))
	})

	t.Run("unknown user yields the same error as wrong password", func(t *testing.T) {
		_, err := authService.Login(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	authService, _, testDB, _ := newAuthService(t)
	ctx := context.Background()

	t.Run("rotation consumes the old token", func(t *testing.T) {
		testDB.Truncate(t)
		user, password := testutil.NewUserBuilder().Build(t, testDB.DB)
		login, err := authService.Login(ctx, user.Username, password)
		require.NoError(t, err)

		refreshed, err := authService.Refresh(ctx, login.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

		// Replaying the consumed token fails
		_, err = authService.Refresh(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)

		// The rotated token still works
		_, err = authService.Refresh(ctx, refreshed.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := authService.Refresh(ctx, "no-such-token")
		assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
	})

	t.Run("expired token is rejected and purged", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		expired := testutil.NewRefreshTokenBuilder(user.ID).
			WithExpiresAt(time.Now().Add(-time.Hour)).
			Build(t, testDB.DB)

		_, err := authService.Refresh(ctx, expired.Token)
		assert.ErrorIs(t, err, domain.ErrRefreshTokenExpired)

		// The record is gone, so a retry reports not-found
		_, err = authService.Refresh(ctx, expired.Token)
		assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
		assert.Equal(t, int64(0), testDB.CountRefreshTokens(t))
	})
}

func TestAuthService_Logout(t *testing.T) {
	authService, _, testDB, _ := newAuthService(t)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().Build(t, testDB.DB)
	login, err := authService.Login(ctx, user.Username, password)
	require.NoError(t, err)

	authService.Logout(ctx, login.RefreshToken)
	assert.Equal(t, int64(0), testDB.CountRefreshTokens(t))

	// Logging out again with the same dead token is fine
	authService.Logout(ctx, login.RefreshToken)
	authService.Logout(ctx, "")

	_, err = authService.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
}

func TestAuthService_ChangePassword(t *testing.T) {
	authService, _, testDB, _ := newAuthService(t)
	ctx := context.Background()

	t.Run("wrong current password leaves the hash untouched", func(t *testing.T) {
		testDB.Truncate(t)
		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		err := authService.ChangePassword(ctx, user.ID, "not-the-password", "newpassword1", "newpassword1")
		assert.ErrorIs(t, err, domain.ErrPasswordMismatch)

		var after domain.User
		require.NoError(t, testDB.DB.First(&after, "id = ?", user.ID).Error)
		assert.Equal(t, user.PasswordHash, after.PasswordHash)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		testDB.Truncate(t)
		user, password := testutil.NewUserBuilder().Build(t, testDB.DB)

		err := authService.ChangePassword(ctx, user.ID, password, "newpassword1", "newpassword2")
		assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
	})

	t.Run("success revokes all sessions", func(t *testing.T) {
		testDB.Truncate(t)
		user, password := testutil.NewUserBuilder().Build(t, testDB.DB)

		login, err := authService.Login(ctx, user.Username, password)
		require.NoError(t, err)
		require.Equal(t, int64(1), testDB.CountRefreshTokens(t))

		require.NoError(t, authService.ChangePassword(ctx, user.ID, password, "newpassword1", "newpassword1"))
		assert.Equal(t, int64(0), testDB.CountRefreshTokens(t))

		_, err = authService.Refresh(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)

		// Old password no longer works, new one does
		_, err = authService.Login(ctx, user.Username, password)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		_, err = authService.Login(ctx, user.Username, "newpassword1")
		assert.NoError(t, err)
	})
}
