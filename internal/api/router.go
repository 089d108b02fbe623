package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/johe/social-app/internal/api/handlers"
	"github.com/johe/social-app/internal/api/middleware"
	"github.com/johe/social-app/internal/config"
	"github.com/johe/social-app/internal/service"
	"github.com/johe/social-app/internal/token"
)

func NewRouter(services *service.Services, issuer *token.Issuer, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	myHandler := handlers.NewMyHandler(services.Auth, services.User, services.Post, services.Friendship)
	userHandler := handlers.NewUserHandler(services.User)
	postHandler := handlers.NewPostHandler(services.Post)
	commentHandler := handlers.NewCommentHandler(services.Comment)
	friendshipHandler := handlers.NewFriendshipHandler(services.Friendship)
	adminHandler := handlers.NewAdminHandler(services.User)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes; refresh and logout rely on the cookie, not
		// a bearer token, so they stay outside the auth middleware
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(issuer))

			// Authenticated user's own resources
			r.Route("/my", func(r chi.Router) {
				r.Get("/", myHandler.GetMe)
				r.Patch("/", myHandler.UpdateMe)
				r.Patch("/change-password", myHandler.ChangePassword)
				r.Delete("/", myHandler.DeleteMe)
				r.Get("/posts", myHandler.GetMyPosts)
				r.Get("/friends", myHandler.GetMyFriends)
				r.Get("/friend-requests", myHandler.GetMyFriendRequests)
			})

			// User directory
			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{userId}", userHandler.Get)
			})

			// Posts and comments
			r.Route("/posts", func(r chi.Router) {
				r.Get("/", postHandler.List)
				r.Post("/", postHandler.Create)
				r.Get("/{postId}", postHandler.Get)
				r.Patch("/{postId}", postHandler.Edit)
				r.Delete("/{postId}", postHandler.Delete)

				r.Route("/{postId}/comments", func(r chi.Router) {
					r.Get("/", commentHandler.List)
					r.Post("/", commentHandler.Create)
					r.Post("/{commentId}", commentHandler.Reply)
				})
			})

			// Friendships
			r.Route("/friendships", func(r chi.Router) {
				r.Post("/", friendshipHandler.SendRequest)
				r.Post("/{friendshipId}/accept", friendshipHandler.Accept)
				r.Delete("/{friendshipId}", friendshipHandler.Remove)
			})

			// Admin-only user management
			r.Route("/admin/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", adminHandler.ListUsers)
				r.Get("/{userId}", adminHandler.GetUser)
				r.Patch("/{userId}", adminHandler.UpdateUser)
				r.Delete("/{userId}", adminHandler.DeleteUser)
			})
		})
	})

	return r
}
