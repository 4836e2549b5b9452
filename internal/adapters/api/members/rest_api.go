package members

import (
	"context"

	"strafenkasse/internal/adapters/api/rest"
	domain "strafenkasse/internal/domain/member"
)

// RESTAPI implements API against the remote backend.
type RESTAPI struct {
	client *rest.Client
}

// NewRESTAPI creates the member adapter.
func NewRESTAPI(client *rest.Client) *RESTAPI {
	return &RESTAPI{client: client}
}

// memberDTO matches the backend wire format for a roster entry.
type memberDTO struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Status string `json:"status"`
	NFCID  string `json:"nfc_id,omitempty"`
}

func (d memberDTO) toDomain() domain.Member {
	return domain.Member{ID: d.ID, Name: d.Name, Status: d.Status, NFCID: d.NFCID}
}

func fromDomain(m domain.Member) memberDTO {
	return memberDTO{Name: m.Name, Status: m.Status, NFCID: m.NFCID}
}

// List fetches the full roster.
// POST: Returns the backend's transient copy of all members
func (a *RESTAPI) List(ctx context.Context, token string) ([]domain.Member, error) {
	var dtos []memberDTO
	if err := a.client.Get(ctx, token, "/members", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Member, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Create registers a new member.
// PRE: m has been validated
func (a *RESTAPI) Create(ctx context.Context, token string, m domain.Member) (domain.Member, error) {
	var resp memberDTO
	if err := a.client.Post(ctx, token, "/members", fromDomain(m), &resp); err != nil {
		return domain.Member{}, err
	}
	return resp.toDomain(), nil
}

// Update replaces a member record.
// PRE: m has been validated; id is non-empty
func (a *RESTAPI) Update(ctx context.Context, token, id string, m domain.Member) (domain.Member, error) {
	var resp memberDTO
	if err := a.client.Put(ctx, token, "/members/"+id, fromDomain(m), &resp); err != nil {
		return domain.Member{}, err
	}
	return resp.toDomain(), nil
}

// Delete removes a member record.
// PRE: id is non-empty
func (a *RESTAPI) Delete(ctx context.Context, token, id string) error {
	return a.client.Delete(ctx, token, "/members/"+id)
}
