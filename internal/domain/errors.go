package domain

import "errors"

var (
	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrNotRoomOwner = errors.New("room belongs to another user")

	// Participant errors
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrDuplicateParticipant = errors.New("a participant with this name already exists")

	// Settlement errors
	ErrUnbalancedSettlement = errors.New("settlement does not balance: total buy-ins must equal total buy-outs")
	ErrNegativeAmount       = errors.New("amounts must not be negative")
	ErrEntryNotFound        = errors.New("ledger entry not found")

	// Chart errors
	ErrNoChartData = errors.New("no data available to chart")

	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("a user with this email already exists")
	ErrUsernameTaken    = errors.New("this username is already taken")
	ErrUsernameCooldown = errors.New("username was changed too recently")

	// Friend errors
	ErrFriendRequestNotFound  = errors.New("friend request not found")
	ErrFriendRequestClosed    = errors.New("friend request already resolved")
	ErrSelfFriendRequest      = errors.New("cannot send a friend request to yourself")
	ErrDuplicateFriendRequest = errors.New("friend request already sent")
	ErrAlreadyFriends         = errors.New("users are already friends")
)
