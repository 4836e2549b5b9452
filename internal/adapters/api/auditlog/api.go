package auditlog

import (
	"context"

	domain "strafenkasse/internal/domain/audit"
)

// API is the backend port for the read-only audit feed.
type API interface {
	List(ctx context.Context, token string, filter domain.Filter, limit int) ([]domain.Entry, error)
}
