package auth

import (
	"context"

	"strafenkasse/internal/adapters/api/rest"
)

// RESTAPI implements API against the remote backend.
type RESTAPI struct {
	client *rest.Client
}

// NewRESTAPI creates the auth adapter.
func NewRESTAPI(client *rest.Client) *RESTAPI {
	return &RESTAPI{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	MemberID string `json:"member_id,omitempty"`
}

// Login exchanges credentials for a bearer token.
// PRE: username and password are non-empty
// POST: Returns token and identity on success; rest.ErrUnauthorized on bad credentials
func (a *RESTAPI) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var resp loginResponse
	if err := a.client.Post(ctx, "", "/auth/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token:    resp.Token,
		Username: resp.Username,
		Role:     resp.Role,
		MemberID: resp.MemberID,
	}, nil
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword forwards a password change for the authenticated user.
// PRE: token is a valid bearer token
// POST: Returns nil on success; rest.ErrUnauthorized if the old password is wrong
func (a *RESTAPI) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	return a.client.Put(ctx, token, "/auth/change-password", changePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	}, nil)
}
