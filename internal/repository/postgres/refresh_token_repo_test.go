package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/repository/postgres"
	"github.com/johe/social-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToken(userID uuid.UUID, expiresAt time.Time) *domain.RefreshToken {
	return &domain.RefreshToken{
		Token:     uuid.New().String() + uuid.New().String(),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

func TestRefreshTokenRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	token := newToken(user.ID, time.Now().Add(time.Hour))

	require.NoError(t, repo.Create(ctx, token))

	found, err := repo.GetByToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	_, err = repo.GetByToken(ctx, "missing-token-value")
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
}

func TestRefreshTokenRepository_Rotate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	old := newToken(user.ID, time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, old))

	replacement := newToken(user.ID, time.Now().Add(time.Hour))
	require.NoError(t, repo.Rotate(ctx, old.Token, replacement))

	// Old value is gone, replacement is live
	_, err := repo.GetByToken(ctx, old.Token)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)

	found, err := repo.GetByToken(ctx, replacement.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	// Rotating the consumed value again must fail and must not persist
	// the would-be replacement
	second := newToken(user.ID, time.Now().Add(time.Hour))
	err = repo.Rotate(ctx, old.Token, second)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)

	_, err = repo.GetByToken(ctx, second.Token)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
}

func TestRefreshTokenRepository_Rotate_ConcurrentSingleWinner(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	old := newToken(user.ID, time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, old))

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Rotate(ctx, old.Token, newToken(user.ID, time.Now().Add(time.Hour)))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
		}
	}
	assert.Equal(t, 1, winners, "exactly one rotation may succeed")

	// Only the winner's replacement survives
	assert.Equal(t, int64(1), testDB.CountRefreshTokens(t))
}

func TestRefreshTokenRepository_Delete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	token := newToken(user.ID, time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, token))

	deleted, err := repo.Delete(ctx, token.Token)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting again is a no-op, not an error
	deleted, err = repo.Delete(ctx, token.Token)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRefreshTokenRepository_DeleteByUserID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	require.NoError(t, repo.Create(ctx, newToken(user.ID, time.Now().Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newToken(user.ID, time.Now().Add(time.Hour))))
	kept := newToken(other.ID, time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, kept))

	require.NoError(t, repo.DeleteByUserID(ctx, user.ID))

	assert.Equal(t, int64(1), testDB.CountRefreshTokens(t))
	_, err := repo.GetByToken(ctx, kept.Token)
	assert.NoError(t, err)
}

func TestRefreshTokenRepository_DeleteExpired(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRefreshTokenRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	require.NoError(t, repo.Create(ctx, newToken(user.ID, time.Now().Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newToken(user.ID, time.Now().Add(-time.Minute))))
	live := newToken(user.ID, time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, live))

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.GetByToken(ctx, live.Token)
	assert.NoError(t, err)
}
