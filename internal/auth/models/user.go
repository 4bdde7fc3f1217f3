package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores bytes past 72
	MaxNameLength     = 100
	MaxEmailLength    = 254
)

// User is a dashboard account.
//
// Invariants:
//   - Email is lower-cased, trimmed and a valid address
//   - Name is 1-100 characters
//   - PasswordHash is a bcrypt hash, never the plaintext
type User struct {
	ID           id.UserID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail lower-cases and trims an address. Lookups use the same
// normalization so email uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if len(email) > MaxEmailLength || !govalidator.IsEmail(email) {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at most 72 bytes")
	}
	return nil
}

// NewUser builds a user from an already hashed password.
func NewUser(userID id.UserID, email, name, passwordHash string, now time.Time) (*User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := ValidateEmail(email); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, dErrors.MessageOf(err))
	}
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name must be 1-100 characters")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash is required")
	}
	return &User{
		ID:           userID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}
