package domain

import "time"

type User struct {
	ID            string
	FullName      string
	Email         string
	PasswordHash  string
	Role          string
	EmailVerified bool
	Locked        bool

	// Password reset state. Only the digest of the reset token is stored.
	ResetTokenHash   string
	ResetTokenExpiry time.Time
}
