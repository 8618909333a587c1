package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dpa-app/dpa-server/internal/domain"
)

// RoomRepository defines data access for rooms.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	// GetByID loads a room with its participants and their full histories.
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Room, error)
	Delete(ctx context.Context, id string) error
}

// ParticipantRepository defines data access for participants.
type ParticipantRepository interface {
	Add(ctx context.Context, participant *domain.Participant) error
	Remove(ctx context.Context, id string) error
	// GetByRoomForUpdate locks a room's participant rows (sorted by ID)
	// for the duration of the transaction. Histories are not loaded.
	GetByRoomForUpdate(ctx context.Context, tx Transaction, roomID string) ([]*domain.Participant, error)
	UpdateWinLoss(ctx context.Context, tx Transaction, id string, winLoss decimal.Decimal, updatedAt time.Time) error
	// HistoryByOwnerAndName collects every entry, across all rooms the
	// owner has, belonging to participants with the given name.
	HistoryByOwnerAndName(ctx context.Context, ownerID, name string) ([]domain.LedgerEntry, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByParticipant(ctx context.Context, tx Transaction, participantID string) ([]domain.LedgerEntry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	Delete(ctx context.Context, tx Transaction, id string) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// FriendRepository defines data access for friend requests and friendships.
type FriendRepository interface {
	CreateRequest(ctx context.Context, request *domain.FriendRequest) error
	GetRequestByID(ctx context.Context, id string) (*domain.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status domain.FriendRequestStatus, respondedAt time.Time) error
	ListPendingByReceiver(ctx context.Context, receiverID string) ([]*domain.FriendRequest, error)
	HasPendingBetween(ctx context.Context, senderID, receiverID string) (bool, error)
	CreateFriendship(ctx context.Context, friendship *domain.Friendship) error
	AreFriends(ctx context.Context, userA, userB string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Friendship, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation when it fails with a transient error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
