package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dpa-app/dpa-server/internal/domain"
)

// RoomRepository implements usecase.RoomRepository.
type RoomRepository struct {
	pool *pgxpool.Pool
}

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// Create inserts a new room.
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		room.ID,
		room.OwnerID,
		room.Name,
		room.CreatedAt,
		room.UpdatedAt,
	)

	return err
}

// GetByID retrieves a room with its participants and their full histories.
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	var room domain.Room
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.OwnerID,
		&room.Name,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	participants, err := r.loadParticipants(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	room.Participants = participants

	return &room, nil
}

// ListByOwner lists a user's rooms with pagination. Participants are
// loaded without histories.
func (r *RoomRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Room, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at
		FROM rooms
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		var room domain.Room
		err := rows.Scan(
			&room.ID,
			&room.OwnerID,
			&room.Name,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, room := range rooms {
		participants, err := r.loadParticipantRows(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		room.Participants = participants
	}

	return rooms, nil
}

// Delete removes a room. Participants and entries go with it via
// ON DELETE CASCADE.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}

	return nil
}

func (r *RoomRepository) loadParticipants(ctx context.Context, roomID string) ([]*domain.Participant, error) {
	participants, err := r.loadParticipantRows(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return participants, nil
	}

	query := `
		SELECT e.id, e.participant_id, e.date, e.amount_in, e.amount_out, e.created_at
		FROM entries e
		JOIN participants p ON p.id = e.participant_id
		WHERE p.room_id = $1
		ORDER BY e.date, e.created_at
	`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if p, ok := byID[entry.ParticipantID]; ok {
			p.History = append(p.History, entry)
		}
	}

	return participants, rows.Err()
}

func (r *RoomRepository) loadParticipantRows(ctx context.Context, roomID string) ([]*domain.Participant, error) {
	query := `
		SELECT id, room_id, name, win_loss, created_at, updated_at
		FROM participants
		WHERE room_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		var (
			p       domain.Participant
			winLoss pgtype.Numeric
		)
		err := rows.Scan(
			&p.ID,
			&p.RoomID,
			&p.Name,
			&winLoss,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.WinLoss = numericToDecimal(winLoss)
		participants = append(participants, &p)
	}

	return participants, rows.Err()
}
