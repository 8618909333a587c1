package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dpa-app/dpa-server/internal/domain"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	ProfilePhoto *int      `json:"profile_photo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		ProfilePhoto: u.ProfilePhoto,
		CreatedAt:    u.CreatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// TokenResponse carries a JWT and the authenticated user.
type TokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ParticipantResponse represents a participant in API responses.
type ParticipantResponse struct {
	ID        string          `json:"id"`
	RoomID    string          `json:"room_id"`
	Name      string          `json:"name"`
	WinLoss   decimal.Decimal `json:"win_loss"`
	History   []EntryResponse `json:"history,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ParticipantFromDomain converts a domain participant to a response.
func ParticipantFromDomain(p *domain.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		ID:        p.ID,
		RoomID:    p.RoomID,
		Name:      p.Name,
		WinLoss:   p.WinLoss,
		History:   EntriesFromDomain(p.History),
		CreatedAt: p.CreatedAt,
	}
}

// ParticipantsFromDomain converts domain participants to responses.
func ParticipantsFromDomain(participants []*domain.Participant) []*ParticipantResponse {
	result := make([]*ParticipantResponse, len(participants))
	for i, p := range participants {
		result[i] = ParticipantFromDomain(p)
	}
	return result
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	OwnerID      string                 `json:"owner_id"`
	Participants []*ParticipantResponse `json:"participants,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// RoomFromDomain converts a domain room to a response.
func RoomFromDomain(room *domain.Room) *RoomResponse {
	return &RoomResponse{
		ID:           room.ID,
		Name:         room.Name,
		OwnerID:      room.OwnerID,
		Participants: ParticipantsFromDomain(room.Participants),
		CreatedAt:    room.CreatedAt,
		UpdatedAt:    room.UpdatedAt,
	}
}

// RoomsFromDomain converts domain rooms to responses.
func RoomsFromDomain(rooms []*domain.Room) []*RoomResponse {
	result := make([]*RoomResponse, len(rooms))
	for i, room := range rooms {
		result[i] = RoomFromDomain(room)
	}
	return result
}

// ListRoomsResponse wraps a page of rooms.
type ListRoomsResponse struct {
	Rooms []*RoomResponse `json:"rooms"`
	Total int64           `json:"total"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	ParticipantID string          `json:"participant_id"`
	Date          string          `json:"date"`
	AmountIn      decimal.Decimal `json:"amount_in"`
	AmountOut     decimal.Decimal `json:"amount_out"`
	Net           decimal.Decimal `json:"net"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		ParticipantID: e.ParticipantID,
		Date:          e.Date,
		AmountIn:      e.AmountIn,
		AmountOut:     e.AmountOut,
		Net:           e.Net(),
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []domain.LedgerEntry) []EntryResponse {
	if entries == nil {
		return nil
	}

	result := make([]EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// SeriesResponse represents a chart series in API responses.
type SeriesResponse struct {
	Labels []string                    `json:"labels"`
	Series []ParticipantSeriesResponse `json:"series"`
}

// ParticipantSeriesResponse is one participant's line.
type ParticipantSeriesResponse struct {
	ParticipantID string            `json:"participant_id,omitempty"`
	Name          string            `json:"name"`
	Points        []decimal.Decimal `json:"points"`
}

// SeriesFromDomain converts a domain chart series to a response.
func SeriesFromDomain(s *domain.ChartSeries) *SeriesResponse {
	series := make([]ParticipantSeriesResponse, len(s.Series))
	for i, ps := range s.Series {
		series[i] = ParticipantSeriesResponse{
			ParticipantID: ps.ParticipantID,
			Name:          ps.Name,
			Points:        ps.Points,
		}
	}

	return &SeriesResponse{
		Labels: s.Labels,
		Series: series,
	}
}

// FriendRequestResponse represents a friend request in API responses.
type FriendRequestResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// FriendRequestFromDomain converts a domain friend request to a response.
func FriendRequestFromDomain(r *domain.FriendRequest) *FriendRequestResponse {
	return &FriendRequestResponse{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}

// IncomingRequestResponse pairs a pending request with its sender.
type IncomingRequestResponse struct {
	Request *FriendRequestResponse `json:"request"`
	Sender  *UserResponse          `json:"sender"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
