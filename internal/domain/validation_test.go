package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateParticipantName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"valid name", "Alice", false},
		{"empty name", "", true},
		{"whitespace only", "   ", true},
		{"too long", string(make([]byte, MaxNameLength+1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParticipantName(tt.input)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username    string
		expectError bool
	}{
		{"pokerface", false},
		{"Poker_Face_99", false},
		{"ab", true},
		{"has space", true},
		{"way-too-long-username-for-anyone", true},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			err := ValidateUsername(tt.username)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	if err := ValidateDate("2024-01-31"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	for _, bad := range []string{"2024-13-01", "01/02/2024", "yesterday", ""} {
		if err := ValidateDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestValidateStakeAmounts(t *testing.T) {
	if err := ValidateStakeAmounts(decimal.NewFromInt(50), decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateStakeAmounts(decimal.NewFromInt(-1), decimal.Zero); err == nil {
		t.Error("expected error for negative buy-in")
	}

	huge := decimal.NewFromInt(2_000_000)
	if err := ValidateStakeAmounts(huge, huge); err == nil {
		t.Error("expected error for amount above maximum")
	}
}
