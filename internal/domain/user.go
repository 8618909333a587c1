package domain

import (
	"errors"
	"time"
)

// UsernameCooldown is how long a user must wait between username changes.
const UsernameCooldown = 14 * 24 * time.Hour

// User is an account holder: authentication identity plus the profile
// fields shown to friends.
type User struct {
	CreatedAt          time.Time
	UpdatedAt          time.Time
	LastUsernameChange *time.Time
	ProfilePhoto       *int
	ID                 string
	Email              string
	Username           string
	HashedPassword     string
}

// CanChangeUsername reports whether the cooldown since the last change
// has elapsed, and how long remains when it has not.
func (u *User) CanChangeUsername(now time.Time) (bool, time.Duration) {
	if u.LastUsernameChange == nil {
		return true, 0
	}

	next := u.LastUsernameChange.Add(UsernameCooldown)
	if now.Before(next) {
		return false, next.Sub(now)
	}

	return true, 0
}

// Authentication errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
)
