package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dpa-app/dpa-server/internal/usecase"
)

// SignupRequest represents a request to create an account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *SignupRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangeUsernameRequest represents a username change.
type ChangeUsernameRequest struct {
	Username string `json:"username"`
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangeEmailRequest represents an email change.
type ChangeEmailRequest struct {
	Password string `json:"password"`
	Email    string `json:"email"`
}

// SetProfilePhotoRequest selects one of the built-in profile pictures.
type SetProfilePhotoRequest struct {
	Photo int `json:"photo"`
}

// CreateRoomRequest represents a request to create a room.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// AddParticipantRequest represents a request to add a player to a room.
type AddParticipantRequest struct {
	Name string `json:"name"`
}

// StakeItem is one participant's pending values in a settlement.
type StakeItem struct {
	ParticipantID string          `json:"participant_id"`
	Date          string          `json:"date,omitempty"`
	AmountIn      decimal.Decimal `json:"amount_in"`
	AmountOut     decimal.Decimal `json:"amount_out"`
}

// CommitSettlementRequest represents a request to settle a session.
type CommitSettlementRequest struct {
	Stakes []StakeItem `json:"stakes"`
}

// ToUseCaseInput converts to use case input.
func (r *CommitSettlementRequest) ToUseCaseInput(roomID, requesterID string) usecase.CommitSettlementInput {
	stakes := make([]usecase.StakeInput, len(r.Stakes))
	for i, s := range r.Stakes {
		stakes[i] = usecase.StakeInput{
			ParticipantID: s.ParticipantID,
			Date:          s.Date,
			AmountIn:      s.AmountIn,
			AmountOut:     s.AmountOut,
		}
	}

	return usecase.CommitSettlementInput{
		RoomID:      roomID,
		RequesterID: requesterID,
		Stakes:      stakes,
	}
}

// EditEntryRequest represents a request to edit a committed entry.
type EditEntryRequest struct {
	AmountIn  decimal.Decimal `json:"amount_in"`
	AmountOut decimal.Decimal `json:"amount_out"`
}

// SendFriendRequestRequest addresses a user by username or email.
type SendFriendRequestRequest struct {
	Recipient string `json:"recipient"`
}

// RespondFriendRequestRequest accepts or rejects a pending request.
type RespondFriendRequestRequest struct {
	Accept bool `json:"accept"`
}
