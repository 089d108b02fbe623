package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/johe/social-app/internal/domain"
	"github.com/johe/social-app/internal/repository"
)

type FriendshipService struct {
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
}

func NewFriendshipService(friendshipRepo repository.FriendshipRepository, userRepo repository.UserRepository) *FriendshipService {
	return &FriendshipService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
	}
}

func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, addresseeID uuid.UUID) (*domain.Friendship, error) {
	if requesterID == addresseeID {
		return nil, domain.ErrSelfFriendship
	}

	if _, err := s.userRepo.GetByID(ctx, addresseeID); err != nil {
		return nil, err
	}

	existing, err := s.friendshipRepo.GetByPair(ctx, requesterID, addresseeID)
	if err != nil && !errors.Is(err, domain.ErrFriendshipNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrFriendshipExists
	}

	friendship := &domain.Friendship{
		ID:          uuid.New(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      domain.FriendshipPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.friendshipRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}
	return friendship, nil
}

// AcceptRequest marks a pending request as accepted. Only the addressee may accept.
func (s *FriendshipService) AcceptRequest(ctx context.Context, friendshipID, callerID uuid.UUID) (*domain.Friendship, error) {
	friendship, err := s.friendshipRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != callerID {
		return nil, domain.ErrNotAddressee
	}
	if friendship.Status == domain.FriendshipAccepted {
		return friendship, nil
	}

	friendship.Status = domain.FriendshipAccepted
	friendship.UpdatedAt = time.Now()
	if err := s.friendshipRepo.Update(ctx, friendship); err != nil {
		return nil, err
	}
	return friendship, nil
}

// RemoveFriendship declines a pending request or ends an accepted friendship.
// Either side may remove it.
func (s *FriendshipService) RemoveFriendship(ctx context.Context, friendshipID, callerID uuid.UUID) error {
	friendship, err := s.friendshipRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}

	if !friendship.Involves(callerID) {
		return domain.ErrForbidden
	}

	return s.friendshipRepo.Delete(ctx, friendshipID)
}

// ListFriends returns the other side of every accepted friendship for a user
func (s *FriendshipService) ListFriends(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	friendships, err := s.friendshipRepo.GetForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]*domain.User, 0, len(friendships))
	for _, f := range friendships {
		if f.Status != domain.FriendshipAccepted {
			continue
		}
		if f.RequesterID == userID {
			friends = append(friends, f.Addressee)
		} else {
			friends = append(friends, f.Requester)
		}
	}
	return friends, nil
}

// PendingRequest pairs a pending friendship with the direction relative to a user
type PendingRequest struct {
	Friendship *domain.Friendship
	Incoming   bool
}

// ListPendingRequests returns pending requests the user sent or received
func (s *FriendshipService) ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]PendingRequest, error) {
	friendships, err := s.friendshipRepo.GetForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests := make([]PendingRequest, 0, len(friendships))
	for _, f := range friendships {
		if f.Status != domain.FriendshipPending {
			continue
		}
		requests = append(requests, PendingRequest{
			Friendship: f,
			Incoming:   f.AddresseeID == userID,
		})
	}
	return requests, nil
}
