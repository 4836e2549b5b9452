package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	authapi "strafenkasse/internal/adapters/api/auth"
	"strafenkasse/internal/adapters/api/rest"
	"strafenkasse/internal/domain/session"
)

// AuthAPIForLogin defines the backend port needed by Login.
type AuthAPIForLogin interface {
	Login(ctx context.Context, username, password string) (authapi.LoginResult, error)
}

// SessionsForLogin defines the session manager surface needed by Login.
type SessionsForLogin interface {
	Create(ctx context.Context, bearerToken, username, role string) (session.Session, error)
	ClearLogoutReason(ctx context.Context, token string)
}

// LoginInput carries input for the login orchestrator. PriorToken is the
// stale session cookie the browser may still carry; its recorded logout
// reason is cleared on success.
type LoginInput struct {
	Username   string
	Password   string
	PriorToken string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Auth     AuthAPIForLogin
	Sessions SessionsForLogin
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrBackendUnreachable = errors.New("backend not reachable")
)

// ExecuteLogin checks credentials against the backend and starts a local
// session holding the bearer token.
// PRE: Username and password are non-empty after trimming
// POST: On success a session exists with both slots filled and both timers
// armed, and any stale logout reason is cleared; on failure nothing is stored
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (session.Session, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return session.Session{}, ErrInvalidCredentials
	}

	result, err := deps.Auth.Login(ctx, username, input.Password)
	if err != nil {
		if errors.Is(err, rest.ErrUnauthorized) {
			slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "rejected")
			return session.Session{}, ErrInvalidCredentials
		}
		slog.Error("auth_event", "event", "login_failed", "username", username, "reason", "backend", "error", err.Error())
		return session.Session{}, ErrBackendUnreachable
	}

	sess, err := deps.Sessions.Create(ctx, result.Token, result.Username, result.Role)
	if err != nil {
		return session.Session{}, err
	}
	if input.PriorToken != "" {
		deps.Sessions.ClearLogoutReason(ctx, input.PriorToken)
	}

	slog.Info("auth_event", "event", "login_success", "username", result.Username, "role", result.Role)
	return sess, nil
}
