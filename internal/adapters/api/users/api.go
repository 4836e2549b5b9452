package users

import (
	"context"

	domain "strafenkasse/internal/domain/user"
)

// CreateInput carries a new backend user. The password travels to the
// backend once and is never stored on this tier.
type CreateInput struct {
	Username string
	Password string
	Role     string
	MemberID string
}

// API is the backend port for user management.
type API interface {
	List(ctx context.Context, token string) ([]domain.User, error)
	Create(ctx context.Context, token string, in CreateInput) (domain.User, error)
	Delete(ctx context.Context, token, id string) error
}
