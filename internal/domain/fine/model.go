package fine

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxLabelLength = 100
	MaxNotesLength = 500
)

// Domain errors
var (
	ErrEmptyLabel     = errors.New("fine type label cannot be empty")
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrNoMember       = errors.New("fine must reference a member")
	ErrNoFineType     = errors.New("fine must reference a fine type")
)

// FineType is a named penalty category. Amount is nil for variable-amount
// types, where the amount is entered per booking.
type FineType struct {
	ID     string
	Label  string
	Amount *float64
}

// Validate checks if the FineType has valid data.
// PRE: FineType struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (ft *FineType) Validate() error {
	if strings.TrimSpace(ft.Label) == "" {
		return ErrEmptyLabel
	}
	if len(ft.Label) > MaxLabelLength {
		return errors.New("fine type label cannot exceed 100 characters")
	}
	if ft.Amount != nil && *ft.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// IsVariable returns true if the amount is entered per booking.
// INVARIANT: FineType fields are not mutated
func (ft FineType) IsVariable() bool {
	return ft.Amount == nil
}

// Fine is one booked penalty. The backend owns the record; the client holds
// transient copies fetched per view.
type Fine struct {
	ID            string
	MemberID      string
	FineTypeID    string
	FineTypeLabel string
	Amount        float64
	Date          time.Time
	FiscalYear    string
	Notes         string
}

// Validate checks a booking before it is sent to the backend.
// PRE: Fine struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (f *Fine) Validate() error {
	if f.MemberID == "" {
		return ErrNoMember
	}
	if f.FineTypeID == "" {
		return ErrNoFineType
	}
	if f.Amount < 0 {
		return ErrNegativeAmount
	}
	if len(f.Notes) > MaxNotesLength {
		return errors.New("notes cannot exceed 500 characters")
	}
	return nil
}
