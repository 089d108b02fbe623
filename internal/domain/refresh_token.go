package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted half of a session. The token value is an
// opaque secure-random string; the record is never updated after creation.
// Rotation replaces it with a fresh record and deletes this one.
type RefreshToken struct {
	Token     string    `json:"-" gorm:"primary_key"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the table name for GORM
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Expired reports whether the token is past its expiry at the given time
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
