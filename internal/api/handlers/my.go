package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/johe/social-app/internal/api/middleware"
	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/service"
)

// MyHandler serves the authenticated user's own resources under /my
type MyHandler struct {
	authService       *service.AuthService
	userService       *service.UserService
	postService       *service.PostService
	friendshipService *service.FriendshipService
}

func NewMyHandler(authService *service.AuthService, userService *service.UserService, postService *service.PostService, friendshipService *service.FriendshipService) *MyHandler {
	return &MyHandler{
		authService:       authService,
		userService:       userService,
		postService:       postService,
		friendshipService: friendshipService,
	}
}

// MyUserResponse includes the email, which public user views omit
type MyUserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

type UpdateMeRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

type FriendRequestResponse struct {
	ID       string       `json:"id"`
	From     UserResponse `json:"from"`
	To       UserResponse `json:"to"`
	Incoming bool         `json:"isIncoming"`
}

func (h *MyHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [my.GetMe] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, MyUserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *MyHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), userID, service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			http.Error(w, "Username is already taken", http.StatusConflict)
		case errors.Is(err, domain.ErrEmailTaken):
			http.Error(w, "Email is already registered", http.StatusConflict)
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			log.Printf("ERROR [my.UpdateMe] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *MyHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPasswordMismatch):
			http.Error(w, "Password mismatch", http.StatusBadRequest)
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			log.Printf("ERROR [my.ChangePassword] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteMe removes the caller's account and every session it holds
func (h *MyHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [my.DeleteMe] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MyHandler) GetMyPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	posts, err := h.postService.ListUserPosts(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [my.GetMyPosts] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponses(posts))
}

func (h *MyHandler) GetMyFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	friends, err := h.friendshipService.ListFriends(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [my.GetMyFriends] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]UserResponse, 0, len(friends))
	for _, friend := range friends {
		resp = append(resp, toUserResponse(friend))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MyHandler) GetMyFriendRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requests, err := h.friendshipService.ListPendingRequests(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [my.GetMyFriendRequests] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]FriendRequestResponse, 0, len(requests))
	for _, req := range requests {
		f := req.Friendship
		item := FriendRequestResponse{
			ID:       f.ID.String(),
			Incoming: req.Incoming,
		}
		if f.Requester != nil {
			item.From = toUserResponse(f.Requester)
		}
		if f.Addressee != nil {
			item.To = toUserResponse(f.Addressee)
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, resp)
}
