package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func entry(date string, in, out int64) LedgerEntry {
	return LedgerEntry{
		Date:      date,
		AmountIn:  decimal.NewFromInt(in),
		AmountOut: decimal.NewFromInt(out),
	}
}

func TestLedgerEntry_Net(t *testing.T) {
	e := entry("2024-01-01", 50, 80)

	if !e.Net().Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected net 30, got %s", e.Net())
	}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name     string
		history  []LedgerEntry
		expected int64
	}{
		{
			name:     "empty history yields zero",
			history:  nil,
			expected: 0,
		},
		{
			name: "mixed wins and losses",
			history: []LedgerEntry{
				entry("2024-01-01", 50, 0),
				entry("2024-01-02", 0, 80),
				entry("2024-01-03", 20, 10),
			},
			expected: 20, // -50 + 80 - 10
		},
		{
			name: "all losses",
			history: []LedgerEntry{
				entry("2024-01-01", 100, 0),
				entry("2024-01-08", 40, 0),
			},
			expected: -140,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Balance(tt.history)

			if !got.Equal(decimal.NewFromInt(tt.expected)) {
				t.Errorf("expected balance %d, got %s", tt.expected, got)
			}
		})
	}
}

func TestBalance_Idempotent(t *testing.T) {
	history := []LedgerEntry{
		entry("2024-01-01", 50, 0),
		entry("2024-01-02", 0, 80),
		entry("2024-01-03", 20, 10),
	}

	first := Balance(history)
	second := Balance(history)

	if !first.Equal(second) {
		t.Errorf("re-fold drifted: %s vs %s", first, second)
	}
}
