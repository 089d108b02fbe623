package domain

import (
	"time"

	"github.com/google/uuid"
)

// FriendshipStatus tracks the lifecycle of a friend request
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
)

// Friendship links the requesting user to the addressee. Only the addressee
// may accept; either side may delete (decline or unfriend).
type Friendship struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RequesterID uuid.UUID        `json:"requesterId" gorm:"type:uuid;not null;uniqueIndex:idx_friendships_pair"`
	AddresseeID uuid.UUID        `json:"addresseeId" gorm:"type:uuid;not null;uniqueIndex:idx_friendships_pair"`
	Status      FriendshipStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`

	Requester *User `json:"requester,omitempty" gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE"`
	Addressee *User `json:"addressee,omitempty" gorm:"foreignKey:AddresseeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// Involves reports whether the given user is on either side of the friendship
func (f *Friendship) Involves(userID uuid.UUID) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}
