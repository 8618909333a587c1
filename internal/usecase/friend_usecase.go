package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/dpa-app/dpa-server/internal/domain"
	"github.com/dpa-app/dpa-server/internal/infrastructure/metrics"
)

// FriendUseCase handles friend requests and the friends list.
type FriendUseCase struct {
	friendRepo FriendRepository
	userRepo   UserRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewFriendUseCase creates a new FriendUseCase. metrics may be nil.
func NewFriendUseCase(friendRepo FriendRepository, userRepo UserRepository, idGen IDGenerator, metrics *metrics.Metrics) *FriendUseCase {
	return &FriendUseCase{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// SendRequest sends a friend request to the user identified by username
// or email. Self-requests, duplicate pending requests and requests to
// existing friends are rejected.
func (uc *FriendUseCase) SendRequest(ctx context.Context, senderID, recipient string) (*domain.FriendRequest, error) {
	receiver, err := uc.findRecipient(ctx, recipient)
	if err != nil {
		return nil, err
	}

	if receiver.ID == senderID {
		return nil, domain.ErrSelfFriendRequest
	}

	friends, err := uc.friendRepo.AreFriends(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, domain.ErrAlreadyFriends
	}

	pending, err := uc.friendRepo.HasPendingBetween(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrDuplicateFriendRequest
	}

	request := &domain.FriendRequest{
		ID:         uc.idGen.Generate(),
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Status:     domain.FriendRequestPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := uc.friendRepo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.FriendRequestsSent.Inc()
	}

	return request, nil
}

// Respond resolves a pending request. Only the receiver may respond;
// accepting creates the friendship.
func (uc *FriendUseCase) Respond(ctx context.Context, requestID, responderID string, accept bool) error {
	request, err := uc.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}

	if request.ReceiverID != responderID {
		return domain.ErrFriendRequestNotFound
	}

	if request.Status != domain.FriendRequestPending {
		return domain.ErrFriendRequestClosed
	}

	now := time.Now().UTC()

	status := domain.FriendRequestRejected
	if accept {
		status = domain.FriendRequestAccepted
	}

	if err := uc.friendRepo.UpdateRequestStatus(ctx, requestID, status, now); err != nil {
		return err
	}

	if !accept {
		if uc.metrics != nil {
			uc.metrics.FriendRequestsRejected.Inc()
		}
		return nil
	}

	a, b := domain.NormalizePair(request.SenderID, request.ReceiverID)

	err = uc.friendRepo.CreateFriendship(ctx, &domain.Friendship{
		ID:        uc.idGen.Generate(),
		UserA:     a,
		UserB:     b,
		CreatedAt: now,
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.FriendRequestsAccepted.Inc()
	}

	return nil
}

// IncomingRequest pairs a pending request with its sender's profile.
type IncomingRequest struct {
	Request *domain.FriendRequest
	Sender  *domain.User
}

// ListIncoming lists pending requests addressed to the user.
func (uc *FriendUseCase) ListIncoming(ctx context.Context, userID string) ([]IncomingRequest, error) {
	requests, err := uc.friendRepo.ListPendingByReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}

	incoming := make([]IncomingRequest, 0, len(requests))
	for _, r := range requests {
		sender, err := uc.userRepo.GetByID(ctx, r.SenderID)
		if err != nil {
			return nil, err
		}
		sender.HashedPassword = ""

		incoming = append(incoming, IncomingRequest{Request: r, Sender: sender})
	}

	return incoming, nil
}

// ListFriends returns the profiles of the user's friends.
func (uc *FriendUseCase) ListFriends(ctx context.Context, userID string) ([]*domain.User, error) {
	friendships, err := uc.friendRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]*domain.User, 0, len(friendships))
	for _, f := range friendships {
		friend, err := uc.userRepo.GetByID(ctx, f.OtherUser(userID))
		if err != nil {
			return nil, err
		}
		friend.HashedPassword = ""

		friends = append(friends, friend)
	}

	return friends, nil
}

// findRecipient resolves a username or email to a user.
func (uc *FriendUseCase) findRecipient(ctx context.Context, recipient string) (*domain.User, error) {
	recipient = strings.TrimSpace(recipient)

	if strings.Contains(recipient, "@") {
		user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(recipient))
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.ErrUserNotFound
		}

		return user, nil
	}

	user, err := uc.userRepo.GetByUsername(ctx, recipient)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	return user, nil
}
