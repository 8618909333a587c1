package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dpa-app/dpa-server/internal/domain"
	"github.com/dpa-app/dpa-server/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts a ledger entry inside the transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO entries (id, participant_id, date, amount_in, amount_out, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		entry.ID,
		entry.ParticipantID,
		entry.Date,
		decimalToNumeric(entry.AmountIn),
		decimalToNumeric(entry.AmountOut),
		entry.CreatedAt,
	)

	return err
}

// GetByID retrieves a ledger entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	query := `
		SELECT id, participant_id, date, amount_in, amount_out, created_at
		FROM entries
		WHERE id = $1
	`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// GetByParticipant retrieves a participant's full history inside the
// transaction, ordered by date.
func (r *EntryRepository) GetByParticipant(ctx context.Context, tx usecase.Transaction, participantID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT id, participant_id, date, amount_in, amount_out, created_at
		FROM entries
		WHERE participant_id = $1
		ORDER BY date, created_at
	`

	rows, err := tx.(*Tx).PgxTx().Query(ctx, query, participantID)
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

// Update replaces an entry's amounts inside the transaction.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	query := `
		UPDATE entries
		SET amount_in = $2, amount_out = $3
		WHERE id = $1
	`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		entry.ID,
		decimalToNumeric(entry.AmountIn),
		decimalToNumeric(entry.AmountOut),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry inside the transaction.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// scanEntry scans one entries row.
func scanEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var (
		entry     domain.LedgerEntry
		amountIn  pgtype.Numeric
		amountOut pgtype.Numeric
	)

	err := row.Scan(
		&entry.ID,
		&entry.ParticipantID,
		&entry.Date,
		&amountIn,
		&amountOut,
		&entry.CreatedAt,
	)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	entry.AmountIn = numericToDecimal(amountIn)
	entry.AmountOut = numericToDecimal(amountOut)

	return entry, nil
}
