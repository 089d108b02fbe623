package token_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-key-for-testing-only"

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := token.NewIssuer(testSecret, 15*time.Minute)
	userID := uuid.New()

	raw, err := issuer.Issue(userID, domain.RoleMember)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := issuer.Validate(raw)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, domain.RoleMember, claims.Role)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestIssuer_RoundTrip_AdminRole(t *testing.T) {
	issuer := token.NewIssuer(testSecret, 15*time.Minute)
	userID := uuid.New()

	raw, err := issuer.Issue(userID, domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := issuer.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestIssuer_Validate_Expired(t *testing.T) {
	// Negative TTL produces an already-expired token
	issuer := token.NewIssuer(testSecret, -time.Minute)

	raw, err := issuer.Issue(uuid.New(), domain.RoleMember)
	require.NoError(t, err)

	claims, err := issuer.Validate(raw)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestIssuer_Validate_WrongSecret(t *testing.T) {
	issuer := token.NewIssuer(testSecret, 15*time.Minute)
	other := token.NewIssuer("a-completely-different-secret", 15*time.Minute)

	raw, err := other.Issue(uuid.New(), domain.RoleMember)
	require.NoError(t, err)

	claims, err := issuer.Validate(raw)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestIssuer_Validate_Garbage(t *testing.T) {
	issuer := token.NewIssuer(testSecret, 15*time.Minute)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty string", raw: ""},
		{name: "not a jwt", raw: "definitely-not-a-token"},
		{name: "truncated jwt", raw: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Validate(tt.raw)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}
