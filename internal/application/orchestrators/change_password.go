package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"strafenkasse/internal/adapters/api/rest"
	"strafenkasse/internal/domain/user"
)

// AuthAPIForChangePassword defines the backend port needed by ChangePassword.
type AuthAPIForChangePassword interface {
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error
}

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	BearerToken     string
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	Auth AuthAPIForChangePassword
}

var (
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrNewPasswordSame      = errors.New("new password must be different from current password")
)

// ExecuteChangePassword validates the new password locally and forwards the
// change to the backend, which re-checks the current password.
// PRE: Both passwords are non-empty
// POST: Backend password is updated; the session and bearer token stay valid
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return errors.New("all fields are required")
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}
	if err := user.ValidatePassword(input.NewPassword); err != nil {
		return err
	}

	if err := deps.Auth.ChangePassword(ctx, input.BearerToken, input.CurrentPassword, input.NewPassword); err != nil {
		if errors.Is(err, rest.ErrUnauthorized) {
			return ErrCurrentPasswordWrong
		}
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) {
			return err
		}
		slog.Error("auth_event", "event", "change_password_failed", "error", err.Error())
		return ErrBackendUnreachable
	}

	slog.Info("auth_event", "event", "password_changed")
	return nil
}
