package finetypes

import (
	"context"

	domain "strafenkasse/internal/domain/fine"
)

// API is the backend port for the fines catalog.
type API interface {
	List(ctx context.Context, token string) ([]domain.FineType, error)
	Create(ctx context.Context, token string, ft domain.FineType) (domain.FineType, error)
	Update(ctx context.Context, token, id string, ft domain.FineType) (domain.FineType, error)
	Delete(ctx context.Context, token, id string) error
}
