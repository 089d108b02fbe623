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

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type CommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	ID              string        `json:"id"`
	PostID          string        `json:"postId"`
	ParentCommentID *string       `json:"parentCommentId,omitempty"`
	Text            string        `json:"text"`
	Author          *UserResponse `json:"author,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

func toCommentResponse(comment *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        comment.ID.String(),
		PostID:    comment.PostID.String(),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if comment.ParentCommentID != nil {
		parent := comment.ParentCommentID.String()
		resp.ParentCommentID = &parent
	}
	if comment.User != nil {
		author := toUserResponse(comment.User)
		resp.Author = &author
	}
	return resp
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	comments, err := h.commentService.ListComments(r.Context(), postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [comment.List] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		resp = append(resp, toCommentResponse(comment))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}

	comment, err := h.commentService.AddComment(r.Context(), postID, userID, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [comment.Create] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// Reply creates a comment whose parent is another comment on the same post
func (h *CommentHandler) Reply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}

	comment, err := h.commentService.ReplyToComment(r.Context(), postID, commentID, userID, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			http.Error(w, "Comment not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [comment.Reply] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}
