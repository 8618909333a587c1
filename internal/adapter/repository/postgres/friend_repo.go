package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dpa-app/dpa-server/internal/domain"
)

// FriendRepository implements usecase.FriendRepository.
type FriendRepository struct {
	pool *pgxpool.Pool
}

// NewFriendRepository creates a new FriendRepository.
func NewFriendRepository(pool *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{pool: pool}
}

// CreateRequest inserts a new friend request.
func (r *FriendRepository) CreateRequest(ctx context.Context, request *domain.FriendRequest) error {
	query := `
		INSERT INTO friend_requests (id, sender_id, receiver_id, status, created_at, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		request.ID,
		request.SenderID,
		request.ReceiverID,
		string(request.Status),
		request.CreatedAt,
		request.RespondedAt,
	)

	return err
}

// GetRequestByID retrieves a friend request by ID.
func (r *FriendRepository) GetRequestByID(ctx context.Context, id string) (*domain.FriendRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, status, created_at, responded_at
		FROM friend_requests
		WHERE id = $1
	`

	var (
		request domain.FriendRequest
		status  string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.SenderID,
		&request.ReceiverID,
		&status,
		&request.CreatedAt,
		&request.RespondedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFriendRequestNotFound
	}
	if err != nil {
		return nil, err
	}

	request.Status = domain.FriendRequestStatus(status)

	return &request, nil
}

// UpdateRequestStatus resolves a request.
func (r *FriendRepository) UpdateRequestStatus(ctx context.Context, id string, status domain.FriendRequestStatus, respondedAt time.Time) error {
	query := `
		UPDATE friend_requests
		SET status = $2, responded_at = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, string(status), respondedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFriendRequestNotFound
	}

	return nil
}

// ListPendingByReceiver lists pending requests addressed to the user,
// newest first.
func (r *FriendRepository) ListPendingByReceiver(ctx context.Context, receiverID string) ([]*domain.FriendRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, status, created_at, responded_at
		FROM friend_requests
		WHERE receiver_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.FriendRequest
	for rows.Next() {
		var (
			request domain.FriendRequest
			status  string
		)
		err := rows.Scan(
			&request.ID,
			&request.SenderID,
			&request.ReceiverID,
			&status,
			&request.CreatedAt,
			&request.RespondedAt,
		)
		if err != nil {
			return nil, err
		}
		request.Status = domain.FriendRequestStatus(status)
		requests = append(requests, &request)
	}

	return requests, rows.Err()
}

// HasPendingBetween reports whether a pending request exists between
// the two users, in either direction.
func (r *FriendRepository) HasPendingBetween(ctx context.Context, senderID, receiverID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE status = 'pending'
			  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, senderID, receiverID).Scan(&exists)

	return exists, err
}

// CreateFriendship inserts a friendship. The pair is expected in
// normalized order.
func (r *FriendRepository) CreateFriendship(ctx context.Context, friendship *domain.Friendship) error {
	query := `
		INSERT INTO friendships (id, user_a, user_b, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		friendship.ID,
		friendship.UserA,
		friendship.UserB,
		friendship.CreatedAt,
	)

	return err
}

// AreFriends reports whether the two users are friends.
func (r *FriendRepository) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	a, b := domain.NormalizePair(userA, userB)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM friendships
			WHERE user_a = $1 AND user_b = $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, a, b).Scan(&exists)

	return exists, err
}

// ListByUser lists the user's friendships.
func (r *FriendRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Friendship, error) {
	query := `
		SELECT id, user_a, user_b, created_at
		FROM friendships
		WHERE user_a = $1 OR user_b = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friendships []*domain.Friendship
	for rows.Next() {
		var f domain.Friendship
		err := rows.Scan(&f.ID, &f.UserA, &f.UserB, &f.CreatedAt)
		if err != nil {
			return nil, err
		}
		friendships = append(friendships, &f)
	}

	return friendships, rows.Err()
}
