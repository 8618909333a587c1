package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dpa-app/dpa-server/internal/domain"
	"github.com/dpa-app/dpa-server/internal/infrastructure/metrics"
)

// SettlementUseCase commits settlement batches and edits committed entries.
type SettlementUseCase struct {
	txManager       TransactionManager
	roomRepo        RoomRepository
	participantRepo ParticipantRepository
	entryRepo       EntryRepository
	idGen           IDGenerator
	retrier         Retrier
	cache           Cache
	metrics         *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase. retrier, cache
// and metrics may be nil.
func NewSettlementUseCase(
	txManager TransactionManager,
	roomRepo RoomRepository,
	participantRepo ParticipantRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:       txManager,
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		entryRepo:       entryRepo,
		idGen:           idGen,
		retrier:         retrier,
		cache:           cache,
		metrics:         metrics,
	}
}

// StakeInput is one participant's pending values in a commit request.
// Date is optional; it defaults to today.
type StakeInput struct {
	ParticipantID string
	Date          string
	AmountIn      decimal.Decimal
	AmountOut     decimal.Decimal
}

// CommitSettlementInput represents input for committing a settlement.
type CommitSettlementInput struct {
	RoomID      string
	RequesterID string
	Stakes      []StakeInput
}

// CommitSettlement validates a settlement batch and, when it balances,
// appends one ledger entry per non-zero stake and recomputes the
// affected win/loss totals in a single transaction. An unbalanced batch
// commits nothing.
func (uc *SettlementUseCase) CommitSettlement(ctx context.Context, input CommitSettlementInput) ([]domain.LedgerEntry, error) {
	room, err := uc.ownedRoom(ctx, input.RoomID, input.RequesterID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	today := time.Now().UTC().Format(domain.DateLayout)

	batch := make(domain.SettlementBatch, 0, len(input.Stakes))
	for _, s := range input.Stakes {
		if err := domain.ValidateStakeAmounts(s.AmountIn, s.AmountOut); err != nil {
			return nil, err
		}

		date := s.Date
		if date == "" {
			date = today
		}

		batch = append(batch, domain.Stake{
			ParticipantID: s.ParticipantID,
			Date:          date,
			AmountIn:      s.AmountIn,
			AmountOut:     s.AmountOut,
		})
	}

	if err := batch.Validate(); err != nil {
		if uc.metrics != nil && errors.Is(err, domain.ErrUnbalancedSettlement) {
			uc.metrics.SettlementsRejected.Inc()
		}
		return nil, err
	}

	for _, s := range batch {
		if room.FindParticipant(s.ParticipantID) == nil {
			return nil, domain.ErrParticipantNotFound
		}
	}

	var created []domain.LedgerEntry

	commit := func() error {
		created = created[:0]

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Lock every participant row up front (sorted by ID inside the
		// repository) so two concurrent settlements to the same room
		// serialize instead of clobbering each other.
		locked, err := uc.participantRepo.GetByRoomForUpdate(ctx, tx, room.ID)
		if err != nil {
			return err
		}

		lockedIDs := make(map[string]bool, len(locked))
		for _, p := range locked {
			lockedIDs[p.ID] = true
		}

		now := time.Now().UTC()
		touched := make(map[string]bool)

		for _, s := range batch {
			if !lockedIDs[s.ParticipantID] {
				return domain.ErrParticipantNotFound
			}

			// Zero stakes would only inflate history with no-op rows.
			if s.IsZero() {
				continue
			}

			entry := domain.LedgerEntry{
				ID:            uc.idGen.Generate(),
				ParticipantID: s.ParticipantID,
				Date:          s.Date,
				AmountIn:      s.AmountIn,
				AmountOut:     s.AmountOut,
				CreatedAt:     now,
			}

			if err := uc.entryRepo.Create(ctx, tx, &entry); err != nil {
				return err
			}

			created = append(created, entry)
			touched[s.ParticipantID] = true
		}

		for id := range touched {
			if err := uc.refoldWinLoss(ctx, tx, id, now); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	}

	if err := uc.run(ctx, commit); err != nil {
		return nil, err
	}

	uc.invalidateSeries(ctx, room.OwnerID, room.ID)

	if uc.metrics != nil {
		uc.metrics.SettlementsCommitted.Inc()
		uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
		pot, _ := batch.TotalIn().Float64()
		uc.metrics.SettlementPot.Observe(pot)
	}

	return created, nil
}

// EditEntryInput represents input for editing one committed entry.
type EditEntryInput struct {
	RoomID      string
	RequesterID string
	EntryID     string
	AmountIn    decimal.Decimal
	AmountOut   decimal.Decimal
}

// EditEntry updates an entry's buy-in/buy-out values and recomputes the
// participant's win/loss in the same transaction.
func (uc *SettlementUseCase) EditEntry(ctx context.Context, input EditEntryInput) (*domain.LedgerEntry, error) {
	if err := domain.ValidateStakeAmounts(input.AmountIn, input.AmountOut); err != nil {
		return nil, err
	}

	room, entry, err := uc.ownedEntry(ctx, input.RoomID, input.RequesterID, input.EntryID)
	if err != nil {
		return nil, err
	}

	edit := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := uc.participantRepo.GetByRoomForUpdate(ctx, tx, room.ID); err != nil {
			return err
		}

		now := time.Now().UTC()

		entry.AmountIn = input.AmountIn
		entry.AmountOut = input.AmountOut

		if err := uc.entryRepo.Update(ctx, tx, entry); err != nil {
			return err
		}

		if err := uc.refoldWinLoss(ctx, tx, entry.ParticipantID, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if err := uc.run(ctx, edit); err != nil {
		return nil, err
	}

	uc.invalidateSeries(ctx, room.OwnerID, room.ID)

	if uc.metrics != nil {
		uc.metrics.EntriesEdited.Inc()
	}

	return entry, nil
}

// DeleteEntryInput represents input for deleting one committed entry.
type DeleteEntryInput struct {
	RoomID      string
	RequesterID string
	EntryID     string
}

// DeleteEntry removes an entry and recomputes the participant's win/loss.
func (uc *SettlementUseCase) DeleteEntry(ctx context.Context, input DeleteEntryInput) error {
	room, entry, err := uc.ownedEntry(ctx, input.RoomID, input.RequesterID, input.EntryID)
	if err != nil {
		return err
	}

	del := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := uc.participantRepo.GetByRoomForUpdate(ctx, tx, room.ID); err != nil {
			return err
		}

		if err := uc.entryRepo.Delete(ctx, tx, entry.ID); err != nil {
			return err
		}

		if err := uc.refoldWinLoss(ctx, tx, entry.ParticipantID, time.Now().UTC()); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if err := uc.run(ctx, del); err != nil {
		return err
	}

	uc.invalidateSeries(ctx, room.OwnerID, room.ID)

	if uc.metrics != nil {
		uc.metrics.EntriesDeleted.Inc()
	}

	return nil
}

// refoldWinLoss reloads the participant's history inside the
// transaction and stores the full re-fold.
func (uc *SettlementUseCase) refoldWinLoss(ctx context.Context, tx Transaction, participantID string, now time.Time) error {
	history, err := uc.entryRepo.GetByParticipant(ctx, tx, participantID)
	if err != nil {
		return err
	}

	return uc.participantRepo.UpdateWinLoss(ctx, tx, participantID, domain.Balance(history), now)
}

func (uc *SettlementUseCase) ownedRoom(ctx context.Context, roomID, requesterID string) (*domain.Room, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.OwnerID != requesterID {
		return nil, domain.ErrNotRoomOwner
	}

	return room, nil
}

func (uc *SettlementUseCase) ownedEntry(ctx context.Context, roomID, requesterID, entryID string) (*domain.Room, *domain.LedgerEntry, error) {
	room, err := uc.ownedRoom(ctx, roomID, requesterID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}

	if p := room.FindParticipant(entry.ParticipantID); p == nil {
		return nil, nil, domain.ErrEntryNotFound
	}

	return room, entry, nil
}

func (uc *SettlementUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

func (uc *SettlementUseCase) invalidateSeries(ctx context.Context, ownerID, roomID string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, seriesCacheKey(ownerID, roomID))
	}
}
