package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidRoomName        = errors.New("invalid room name")
	ErrInvalidParticipantName = errors.New("invalid participant name")
	ErrInvalidUsername        = errors.New("invalid username")
	ErrInvalidEmail           = errors.New("invalid email format")
	ErrPasswordTooWeak        = errors.New("password does not meet requirements")
	ErrInvalidDate            = errors.New("invalid date")
	ErrAmountTooLarge         = errors.New("amount exceeds maximum allowed")
	ErrInvalidProfilePhoto    = errors.New("invalid profile photo index")
)

// Validation constants
const (
	MaxNameLength     = 64
	MaxStakeAmount    = "1000000" // nobody buys in for a million at a home game
	MinPasswordLength = 8
	MaxPasswordLength = 128
	ProfilePhotoCount = 12
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,24}$`)
)

// ValidateRoomName validates a room name.
func ValidateRoomName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidRoomName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidRoomName, MaxNameLength)
	}

	return nil
}

// ValidateParticipantName validates a participant name.
func ValidateParticipantName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidParticipantName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidParticipantName, MaxNameLength)
	}

	return nil
}

// ValidateUsername validates a profile username.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: 3-24 letters, digits or underscores", ErrInvalidUsername)
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ValidateDate checks a settlement date is a real calendar day in ISO form.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q is not a valid %s date", ErrInvalidDate, date, DateLayout)
	}

	return nil
}

// ValidateStakeAmounts checks a stake's buy-in and buy-out values.
func ValidateStakeAmounts(amountIn, amountOut decimal.Decimal) error {
	if amountIn.IsNegative() || amountOut.IsNegative() {
		return ErrNegativeAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxStakeAmount)
	if amountIn.GreaterThan(maxAmount) || amountOut.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxStakeAmount)
	}

	return nil
}

// ValidateProfilePhoto checks a photo index against the built-in set.
func ValidateProfilePhoto(index int) error {
	if index < 0 || index >= ProfilePhotoCount {
		return fmt.Errorf("%w: must be between 0 and %d", ErrInvalidProfilePhoto, ProfilePhotoCount-1)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
