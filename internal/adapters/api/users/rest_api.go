package users

import (
	"context"
	"time"

	"strafenkasse/internal/adapters/api/rest"
	domain "strafenkasse/internal/domain/user"
)

// RESTAPI implements API against the remote backend.
type RESTAPI struct {
	client *rest.Client
}

// NewRESTAPI creates the user management adapter.
func NewRESTAPI(client *rest.Client) *RESTAPI {
	return &RESTAPI{client: client}
}

// userDTO matches the backend wire format. Password hashes are never part of it.
type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	MemberID  string    `json:"member_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (d userDTO) toDomain() domain.User {
	return domain.User{ID: d.ID, Username: d.Username, Role: d.Role, MemberID: d.MemberID, CreatedAt: d.CreatedAt}
}

type createRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	MemberID string `json:"member_id,omitempty"`
}

// List fetches all backend users.
func (a *RESTAPI) List(ctx context.Context, token string) ([]domain.User, error) {
	var dtos []userDTO
	if err := a.client.Get(ctx, token, "/users", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.User, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Create registers a new backend user.
// PRE: in has been validated
func (a *RESTAPI) Create(ctx context.Context, token string, in CreateInput) (domain.User, error) {
	var resp userDTO
	req := createRequest{Username: in.Username, Password: in.Password, Role: in.Role, MemberID: in.MemberID}
	if err := a.client.Post(ctx, token, "/users", req, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.toDomain(), nil
}

// Delete removes a backend user.
// PRE: id is non-empty
func (a *RESTAPI) Delete(ctx context.Context, token, id string) error {
	return a.client.Delete(ctx, token, "/users/"+id)
}
