package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/johe/social-app/internal/api/middleware"
	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/service"
)

type FriendshipHandler struct {
	friendshipService *service.FriendshipService
}

func NewFriendshipHandler(friendshipService *service.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

type FriendshipRequest struct {
	UserID string `json:"userId"`
}

type FriendshipResponse struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requesterId"`
	AddresseeID string    `json:"addresseeId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toFriendshipResponse(f *domain.Friendship) FriendshipResponse {
	return FriendshipResponse{
		ID:          f.ID.String(),
		RequesterID: f.RequesterID.String(),
		AddresseeID: f.AddresseeID.String(),
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
	}
}

func (h *FriendshipHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req FriendshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	addresseeID, err := uuid.Parse(req.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	friendship, err := h.friendshipService.SendRequest(r.Context(), userID, addresseeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfFriendship):
			http.Error(w, "Cannot send a friend request to yourself", http.StatusBadRequest)
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrFriendshipExists):
			http.Error(w, "Friendship already exists", http.StatusConflict)
		default:
			log.Printf("ERROR [friendship.SendRequest] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toFriendshipResponse(friendship))
}

func (h *FriendshipHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	friendshipID, err := uuid.Parse(chi.URLParam(r, "friendshipId"))
	if err != nil {
		http.Error(w, "Invalid friendship ID", http.StatusBadRequest)
		return
	}

	friendship, err := h.friendshipService.AcceptRequest(r.Context(), friendshipID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFriendshipNotFound):
			http.Error(w, "Friendship not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrNotAddressee):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("ERROR [friendship.Accept] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, toFriendshipResponse(friendship))
}

// Remove declines a pending request or unfriends; either side may call it
func (h *FriendshipHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	friendshipID, err := uuid.Parse(chi.URLParam(r, "friendshipId"))
	if err != nil {
		http.Error(w, "Invalid friendship ID", http.StatusBadRequest)
		return
	}

	if err := h.friendshipService.RemoveFriendship(r.Context(), friendshipID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrFriendshipNotFound):
			http.Error(w, "Friendship not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("ERROR [friendship.Remove] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
