package auth

import (
	"context"
)

// LoginResult carries the backend's answer to a successful credential check.
type LoginResult struct {
	Token    string
	Username string
	Role     string
	MemberID string
}

// API is the backend port for authentication operations.
type API interface {
	Login(ctx context.Context, username, password string) (LoginResult, error)
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error
}
