package user

import (
	"errors"
	"strings"
	"time"

	"strafenkasse/internal/domain/role"
)

// Max length constants for user-editable fields.
const (
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

// Domain errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrInvalidRole      = errors.New("role must be one of: admin, spiess, vorstand")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// User is an administrative login managed by the backend. The client only
// ever creates, lists, and deletes these records through the API; password
// hashes never reach this tier.
type User struct {
	ID        string
	Username  string
	Role      string
	MemberID  string // optional link to a roster member (personal statistics)
	CreatedAt time.Time
}

// Validate checks if the User has valid data before it is sent to the backend.
// PRE: User struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > MaxUsernameLength {
		return errors.New("username cannot exceed 50 characters")
	}
	if !role.IsValid(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// ValidatePassword checks a new password before it is sent to the backend.
// The backend applies its own policy; this only catches obvious mistakes early.
func ValidatePassword(plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
