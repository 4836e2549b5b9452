package fines

import (
	"context"
	"net/url"
	"time"

	"strafenkasse/internal/adapters/api/rest"
	domain "strafenkasse/internal/domain/fine"
)

// RESTAPI implements API against the remote backend.
type RESTAPI struct {
	client *rest.Client
}

// NewRESTAPI creates the fines adapter.
func NewRESTAPI(client *rest.Client) *RESTAPI {
	return &RESTAPI{client: client}
}

// fineDTO matches the backend wire format for one booking.
type fineDTO struct {
	ID            string    `json:"id"`
	MemberID      string    `json:"member_id"`
	FineTypeID    string    `json:"fine_type_id"`
	FineTypeLabel string    `json:"fine_type_label"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	FiscalYear    string    `json:"fiscal_year"`
	Notes         string    `json:"notes,omitempty"`
}

func (d fineDTO) toDomain() domain.Fine {
	return domain.Fine{
		ID:            d.ID,
		MemberID:      d.MemberID,
		FineTypeID:    d.FineTypeID,
		FineTypeLabel: d.FineTypeLabel,
		Amount:        d.Amount,
		Date:          d.Date,
		FiscalYear:    d.FiscalYear,
		Notes:         d.Notes,
	}
}

type createRequest struct {
	MemberID   string  `json:"member_id"`
	FineTypeID string  `json:"fine_type_id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

type updateRequest struct {
	Amount *float64 `json:"amount,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

// List fetches bookings, optionally restricted to one fiscal year.
func (a *RESTAPI) List(ctx context.Context, token, fiscalYear string) ([]domain.Fine, error) {
	var q url.Values
	if fiscalYear != "" {
		q = url.Values{"fiscal_year": {fiscalYear}}
	}
	var dtos []fineDTO
	if err := a.client.Get(ctx, token, "/fines", q, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Fine, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Create books a fine. A retroactive date is sent as YYYY-MM-DD.
// PRE: in references an existing member and fine type
func (a *RESTAPI) Create(ctx context.Context, token string, in CreateInput) (domain.Fine, error) {
	req := createRequest{
		MemberID:   in.MemberID,
		FineTypeID: in.FineTypeID,
		Amount:     in.Amount,
		Notes:      in.Notes,
	}
	if in.Date != nil {
		req.Date = in.Date.Format("2006-01-02")
	}
	var resp fineDTO
	if err := a.client.Post(ctx, token, "/fines", req, &resp); err != nil {
		return domain.Fine{}, err
	}
	return resp.toDomain(), nil
}

// Update edits the amount and/or notes of a booking.
// PRE: id is non-empty; at least one field of in is set
func (a *RESTAPI) Update(ctx context.Context, token, id string, in UpdateInput) (domain.Fine, error) {
	var resp fineDTO
	if err := a.client.Put(ctx, token, "/fines/"+id, updateRequest{Amount: in.Amount, Notes: in.Notes}, &resp); err != nil {
		return domain.Fine{}, err
	}
	return resp.toDomain(), nil
}

// Delete removes a booking.
// PRE: id is non-empty
func (a *RESTAPI) Delete(ctx context.Context, token, id string) error {
	return a.client.Delete(ctx, token, "/fines/"+id)
}
