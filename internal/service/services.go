package service

import (
	"github.com/johe/social-app/internal/config"
	"github.com/johe/social-app/internal/repository"
	"github.com/johe/social-app/internal/token"
)

type Services struct {
	Auth       *AuthService
	User       *UserService
	Post       *PostService
	Comment    *CommentService
	Friendship *FriendshipService
}

func NewServices(repos *repository.Repositories, issuer *token.Issuer, cfg *config.Config) *Services {
	return &Services{
		Auth:       NewAuthService(repos.User, repos.RefreshToken, issuer, cfg),
		User:       NewUserService(repos.User, repos.RefreshToken),
		Post:       NewPostService(repos.Post),
		Comment:    NewCommentService(repos.Comment, repos.Post),
		Friendship: NewFriendshipService(repos.Friendship, repos.User),
	}
}
