package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for settlement dates.
// Lexicographic order of these strings matches chronological order.
const DateLayout = "2006-01-02"

// LedgerEntry is one settlement record for one participant: the buy-in,
// the buy-out, and the date the session was played.
type LedgerEntry struct {
	CreatedAt     time.Time
	ID            string
	ParticipantID string
	Date          string
	AmountIn      decimal.Decimal
	AmountOut     decimal.Decimal
}

// Net returns the signed result of the entry (buy-out minus buy-in).
func (e LedgerEntry) Net() decimal.Decimal {
	return e.AmountOut.Sub(e.AmountIn)
}

// Balance folds a full history into a win/loss total. It is always a
// re-fold of the entry list; there is no incrementally patched counter
// that could drift from the history.
func Balance(history []LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range history {
		total = total.Add(e.Net())
	}

	return total
}
