package members

import (
	"context"

	domain "strafenkasse/internal/domain/member"
)

// API is the backend port for the member roster.
type API interface {
	List(ctx context.Context, token string) ([]domain.Member, error)
	Create(ctx context.Context, token string, m domain.Member) (domain.Member, error)
	Update(ctx context.Context, token, id string, m domain.Member) (domain.Member, error)
	Delete(ctx context.Context, token, id string) error
}
