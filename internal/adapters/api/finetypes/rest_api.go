package finetypes

import (
	"context"

	"strafenkasse/internal/adapters/api/rest"
	domain "strafenkasse/internal/domain/fine"
)

// RESTAPI implements API against the remote backend.
type RESTAPI struct {
	client *rest.Client
}

// NewRESTAPI creates the fine type adapter.
func NewRESTAPI(client *rest.Client) *RESTAPI {
	return &RESTAPI{client: client}
}

// fineTypeDTO matches the backend wire format; a null amount marks a
// variable-amount type.
type fineTypeDTO struct {
	ID     string   `json:"id,omitempty"`
	Label  string   `json:"label"`
	Amount *float64 `json:"amount"`
}

func (d fineTypeDTO) toDomain() domain.FineType {
	return domain.FineType{ID: d.ID, Label: d.Label, Amount: d.Amount}
}

// List fetches the full catalog.
func (a *RESTAPI) List(ctx context.Context, token string) ([]domain.FineType, error) {
	var dtos []fineTypeDTO
	if err := a.client.Get(ctx, token, "/fine-types", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.FineType, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Create adds a catalog entry.
// PRE: ft has been validated
func (a *RESTAPI) Create(ctx context.Context, token string, ft domain.FineType) (domain.FineType, error) {
	var resp fineTypeDTO
	if err := a.client.Post(ctx, token, "/fine-types", fineTypeDTO{Label: ft.Label, Amount: ft.Amount}, &resp); err != nil {
		return domain.FineType{}, err
	}
	return resp.toDomain(), nil
}

// Update replaces a catalog entry.
// PRE: ft has been validated; id is non-empty
func (a *RESTAPI) Update(ctx context.Context, token, id string, ft domain.FineType) (domain.FineType, error) {
	var resp fineTypeDTO
	if err := a.client.Put(ctx, token, "/fine-types/"+id, fineTypeDTO{Label: ft.Label, Amount: ft.Amount}, &resp); err != nil {
		return domain.FineType{}, err
	}
	return resp.toDomain(), nil
}

// Delete removes a catalog entry.
// PRE: id is non-empty
func (a *RESTAPI) Delete(ctx context.Context, token, id string) error {
	return a.client.Delete(ctx, token, "/fine-types/"+id)
}
