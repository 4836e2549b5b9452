package fines

import (
	"context"
	"time"

	domain "strafenkasse/internal/domain/fine"
)

// CreateInput carries a new fine booking. Date is optional; when nil the
// backend books the fine for today, otherwise it is entered retroactively and
// bucketed into the fiscal year of that date.
type CreateInput struct {
	MemberID   string
	FineTypeID string
	Amount     float64
	Date       *time.Time
	Notes      string
}

// UpdateInput carries the editable fields of an existing fine.
type UpdateInput struct {
	Amount *float64
	Notes  *string
}

// API is the backend port for fine bookings.
type API interface {
	List(ctx context.Context, token, fiscalYear string) ([]domain.Fine, error)
	Create(ctx context.Context, token string, in CreateInput) (domain.Fine, error)
	Update(ctx context.Context, token, id string, in UpdateInput) (domain.Fine, error)
	Delete(ctx context.Context, token, id string) error
}
