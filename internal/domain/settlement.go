package domain

import (
	"github.com/shopspring/decimal"
)

// Stake is one participant's pending in/out values for a settlement.
// Dates may differ across stakes within a single batch.
type Stake struct {
	ParticipantID string
	Date          string
	AmountIn      decimal.Decimal
	AmountOut     decimal.Decimal
}

// IsZero reports whether the stake carries no money at all.
// Zero stakes are skipped at commit time instead of being written as
// no-op history rows.
func (s Stake) IsZero() bool {
	return s.AmountIn.IsZero() && s.AmountOut.IsZero()
}

// SettlementBatch is a proposed set of stakes for one settlement.
type SettlementBatch []Stake

// TotalIn sums the buy-ins of the batch.
func (b SettlementBatch) TotalIn() decimal.Decimal {
	total := decimal.Zero
	for _, s := range b {
		total = total.Add(s.AmountIn)
	}

	return total
}

// TotalOut sums the buy-outs of the batch.
func (b SettlementBatch) TotalOut() decimal.Decimal {
	total := decimal.Zero
	for _, s := range b {
		total = total.Add(s.AmountOut)
	}

	return total
}

// Balanced reports whether total buy-ins equal total buy-outs.
// An empty or all-zero batch is balanced (0 == 0).
func (b SettlementBatch) Balanced() bool {
	return b.TotalIn().Equal(b.TotalOut())
}

// Validate checks every stake and the batch as a whole. An unbalanced
// batch is rejected outright; no partial commit is allowed.
func (b SettlementBatch) Validate() error {
	for _, s := range b {
		if s.ParticipantID == "" {
			return ErrParticipantNotFound
		}

		if s.AmountIn.IsNegative() || s.AmountOut.IsNegative() {
			return ErrNegativeAmount
		}

		if err := ValidateDate(s.Date); err != nil {
			return err
		}
	}

	if !b.Balanced() {
		return ErrUnbalancedSettlement
	}

	return nil
}
