package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Participant is a named player tracked within a room, with a running
// win/loss balance derived from its settlement history.
type Participant struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	RoomID    string
	Name      string
	WinLoss   decimal.Decimal
	History   []LedgerEntry
}

// RecomputeWinLoss re-folds the full history into WinLoss. Every
// mutation path that touches History must call this in the same
// transaction as the mutation.
func (p *Participant) RecomputeWinLoss() {
	p.WinLoss = Balance(p.History)
}

// LastSessionDate returns the most recent settlement date in the
// participant's history, or "" when there is none.
func (p *Participant) LastSessionDate() string {
	last := ""
	for _, e := range p.History {
		if e.Date > last {
			last = e.Date
		}
	}

	return last
}

// Room is a named group of participants sharing a sequence of
// settlement sessions. A room is owned by exactly one user.
type Room struct {
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ID           string
	OwnerID      string
	Name         string
	Participants []*Participant
}

// FindParticipant returns the participant with the given ID, or nil.
func (r *Room) FindParticipant(id string) *Participant {
	for _, p := range r.Participants {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// HasParticipantNamed reports whether a participant with the given
// name already exists in the room. Names are compared case-insensitively.
func (r *Room) HasParticipantNamed(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range r.Participants {
		if strings.ToLower(p.Name) == name {
			return true
		}
	}

	return false
}
