package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a post. A non-nil ParentCommentID makes it a reply to
// another comment on the same post.
type Comment struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID          uuid.UUID  `json:"postId" gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID  `json:"userId" gorm:"type:uuid;not null"`
	ParentCommentID *uuid.UUID `json:"parentCommentId,omitempty" gorm:"type:uuid"`
	Text            string     `json:"text" gorm:"type:text;not null"`
	CreatedAt       time.Time  `json:"createdAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Comment) TableName() string {
	return "comments"
}
