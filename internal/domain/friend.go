package domain

import "time"

// FriendRequestStatus tracks the lifecycle of a friend request.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// IsValid checks if the status is a known value.
func (s FriendRequestStatus) IsValid() bool {
	switch s {
	case FriendRequestPending, FriendRequestAccepted, FriendRequestRejected:
		return true
	}

	return false
}

// FriendRequest is a pending (or resolved) invitation from one user to
// another. Only the receiver may resolve it.
type FriendRequest struct {
	CreatedAt   time.Time
	RespondedAt *time.Time
	ID          string
	SenderID    string
	ReceiverID  string
	Status      FriendRequestStatus
}

// Friendship links two users once a request has been accepted. The
// pair is stored in normalized order so the same friendship cannot
// exist twice.
type Friendship struct {
	CreatedAt time.Time
	ID        string
	UserA     string
	UserB     string
}

// NormalizePair orders two user IDs for storage in a Friendship.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}

	return a, b
}

// OtherUser returns the friend's ID from the perspective of userID.
func (f *Friendship) OtherUser(userID string) string {
	if f.UserA == userID {
		return f.UserB
	}

	return f.UserA
}
