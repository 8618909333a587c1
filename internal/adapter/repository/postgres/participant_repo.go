package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dpa-app/dpa-server/internal/domain"
	"github.com/dpa-app/dpa-server/internal/usecase"
)

// ParticipantRepository implements usecase.ParticipantRepository.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository creates a new ParticipantRepository.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// Add inserts a new participant.
func (r *ParticipantRepository) Add(ctx context.Context, participant *domain.Participant) error {
	query := `
		INSERT INTO participants (id, room_id, name, win_loss, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		participant.ID,
		participant.RoomID,
		participant.Name,
		decimalToNumeric(participant.WinLoss),
		participant.CreatedAt,
		participant.UpdatedAt,
	)

	return err
}

// Remove deletes a participant. Its entries go with it via
// ON DELETE CASCADE.
func (r *ParticipantRepository) Remove(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}

	return nil
}

// GetByRoomForUpdate locks a room's participant rows for the duration
// of the transaction. Rows are locked in ID order so two concurrent
// settlements to the same room acquire locks in the same sequence.
func (r *ParticipantRepository) GetByRoomForUpdate(ctx context.Context, tx usecase.Transaction, roomID string) ([]*domain.Participant, error) {
	query := `
		SELECT id, room_id, name, win_loss, created_at, updated_at
		FROM participants
		WHERE room_id = $1
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.(*Tx).PgxTx().Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.Participant
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

// UpdateWinLoss stores a recomputed win/loss total inside the transaction.
func (r *ParticipantRepository) UpdateWinLoss(ctx context.Context, tx usecase.Transaction, id string, winLoss decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE participants
		SET win_loss = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		id,
		decimalToNumeric(winLoss),
		updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}

	return nil
}

// HistoryByOwnerAndName collects every entry, across all rooms the
// owner has, belonging to participants with the given name.
func (r *ParticipantRepository) HistoryByOwnerAndName(ctx context.Context, ownerID, name string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT e.id, e.participant_id, e.date, e.amount_in, e.amount_out, e.created_at
		FROM entries e
		JOIN participants p ON p.id = e.participant_id
		JOIN rooms r ON r.id = p.room_id
		WHERE r.owner_id = $1 AND LOWER(p.name) = LOWER($2)
		ORDER BY e.date, e.created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
