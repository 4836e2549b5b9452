package user_test

import (
	"testing"

	"strafenkasse/internal/domain/role"
	"strafenkasse/internal/domain/user"
)

// TestUserValidation tests validation of User.
func TestUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		user    user.User
		wantErr bool
	}{
		{name: "valid admin", user: user.User{Username: "kassenwart", Role: role.Admin}, wantErr: false},
		{name: "valid spiess with member link", user: user.User{Username: "henrik", Role: role.Spiess, MemberID: "m1"}, wantErr: false},
		{name: "valid spiess without member link", user: user.User{Username: "henrik", Role: role.Spiess}, wantErr: false},
		{name: "valid vorstand", user: user.User{Username: "vorstand1", Role: role.Vorstand}, wantErr: false},
		{name: "empty username", user: user.User{Username: "  ", Role: role.Admin}, wantErr: true},
		{name: "unknown role", user: user.User{Username: "x", Role: "superuser"}, wantErr: true},
		{name: "mitglied is not assignable", user: user.User{Username: "x", Role: role.Mitglied}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := user.ValidatePassword("kurz"); err != user.ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := user.ValidatePassword("lang genug!"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
