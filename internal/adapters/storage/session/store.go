package session

import (
	"context"
	"errors"
	"time"

	domain "strafenkasse/internal/domain/session"
)

// ErrNotFound is returned when no session exists for a token.
var ErrNotFound = errors.New("session not found")

// Store persists browser sessions and the transient logout-reason slot.
type Store interface {
	Save(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
	List(ctx context.Context) ([]domain.Session, error)
	Touch(ctx context.Context, token string, at time.Time) error

	SaveLogoutReason(ctx context.Context, token, reason string) error
	GetLogoutReason(ctx context.Context, token string) (string, error)
	DeleteLogoutReason(ctx context.Context, token string) error
	PurgeLogoutReasons(ctx context.Context, olderThan time.Time) error
}
