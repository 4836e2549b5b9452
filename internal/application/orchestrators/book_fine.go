package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	finesapi "strafenkasse/internal/adapters/api/fines"
	domain "strafenkasse/internal/domain/fine"
)

// FineTypesForBooking defines the catalog port needed by BookFine.
type FineTypesForBooking interface {
	List(ctx context.Context, token string) ([]domain.FineType, error)
}

// FinesForBooking defines the booking port needed by BookFine.
type FinesForBooking interface {
	Create(ctx context.Context, token string, in finesapi.CreateInput) (domain.Fine, error)
}

// BookFineInput carries input for the fine-booking orchestrator. Amount is
// only consulted for variable-amount fine types; Date is nil for a booking
// dated today.
type BookFineInput struct {
	BearerToken string
	MemberID    string
	FineTypeID  string
	Amount      float64
	Date        *time.Time
	Notes       string
}

// BookFineDeps holds dependencies for BookFine.
type BookFineDeps struct {
	FineTypes FineTypesForBooking
	Fines     FinesForBooking
}

var (
	ErrUnknownFineType = errors.New("unknown fine type")
	ErrAmountRequired  = errors.New("a positive amount is required for this fine type")
	ErrDateInFuture    = errors.New("fine date must not be in the future")
)

// ExecuteBookFine books a fine against a member. Fixed-amount types take
// their amount from the catalog; variable types require one from the caller.
// PRE: MemberID and FineTypeID are non-empty
// POST: The fine is created on the backend, bucketed into the fiscal year of
// its (possibly retroactive) date
func ExecuteBookFine(ctx context.Context, input BookFineInput, deps BookFineDeps) (domain.Fine, error) {
	if input.MemberID == "" || input.FineTypeID == "" {
		return domain.Fine{}, errors.New("member and fine type are required")
	}
	if input.Date != nil && input.Date.After(time.Now()) {
		return domain.Fine{}, ErrDateInFuture
	}

	types, err := deps.FineTypes.List(ctx, input.BearerToken)
	if err != nil {
		return domain.Fine{}, fmt.Errorf("loading fine types: %w", err)
	}
	var fineType *domain.FineType
	for i := range types {
		if types[i].ID == input.FineTypeID {
			fineType = &types[i]
			break
		}
	}
	if fineType == nil {
		return domain.Fine{}, ErrUnknownFineType
	}

	amount := input.Amount
	if fineType.IsVariable() {
		if amount <= 0 {
			return domain.Fine{}, ErrAmountRequired
		}
	} else {
		amount = *fineType.Amount
	}

	booked, err := deps.Fines.Create(ctx, input.BearerToken, finesapi.CreateInput{
		MemberID:   input.MemberID,
		FineTypeID: input.FineTypeID,
		Amount:     amount,
		Date:       input.Date,
		Notes:      input.Notes,
	})
	if err != nil {
		return domain.Fine{}, err
	}

	slog.Info("fine_event", "event", "booked", "member_id", input.MemberID,
		"fine_type", fineType.Label, "amount", amount, "fiscal_year", booked.FiscalYear)
	return booked, nil
}
