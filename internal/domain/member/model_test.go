package member_test

import (
	"testing"

	"strafenkasse/internal/domain/member"
)

// TestMemberValidation tests validation of Member.
func TestMemberValidation(t *testing.T) {
	tests := []struct {
		name    string
		member  member.Member
		wantErr bool
	}{
		{
			name:    "valid active member",
			member:  member.Member{ID: "123", Name: "Hans Berger", Status: member.StatusAktiv},
			wantErr: false,
		},
		{
			name:    "valid passive member",
			member:  member.Member{ID: "123", Name: "Hans Berger", Status: member.StatusPassiv},
			wantErr: false,
		},
		{
			name:    "valid archived member with nfc id",
			member:  member.Member{ID: "123", Name: "Hans Berger", Status: member.StatusArchiviert, NFCID: "04:A3:2F"},
			wantErr: false,
		},
		{
			name:    "empty name",
			member:  member.Member{ID: "123", Name: "  ", Status: member.StatusAktiv},
			wantErr: true,
		},
		{
			name:    "name too long",
			member:  member.Member{ID: "123", Name: string(make([]byte, 101)), Status: member.StatusAktiv},
			wantErr: true,
		},
		{
			name:    "invalid status",
			member:  member.Member{ID: "123", Name: "Hans Berger", Status: "ruhend"},
			wantErr: true,
		},
		{
			name:    "empty status",
			member:  member.Member{ID: "123", Name: "Hans Berger"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.member.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsArchived(t *testing.T) {
	m := member.Member{ID: "1", Name: "Hans", Status: member.StatusAktiv}
	if m.IsArchived() {
		t.Error("active member must not report archived")
	}
	m.Status = member.StatusArchiviert
	if !m.IsArchived() {
		t.Error("archived member must report archived")
	}
}

func TestCodeRoundTrip(t *testing.T) {
	m := member.Member{ID: "abc-123", Name: "Hans", Status: member.StatusAktiv}
	code := m.Code()
	if code != "RHEINZEL-abc-123" {
		t.Errorf("unexpected code %q", code)
	}
	id, err := member.ParseCode(code)
	if err != nil {
		t.Fatalf("ParseCode(%q) returned error: %v", code, err)
	}
	if id != m.ID {
		t.Errorf("ParseCode(%q) = %q, want %q", code, id, m.ID)
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{name: "prefixed payload", payload: "RHEINZEL-42", want: "42"},
		{name: "raw id without prefix", payload: "42", want: "42"},
		{name: "nfc code passes through", payload: "04:A3:2F", want: "04:A3:2F"},
		{name: "surrounding whitespace", payload: "  RHEINZEL-42\n", want: "42"},
		{name: "bare prefix", payload: "RHEINZEL-", wantErr: true},
		{name: "empty payload", payload: "", wantErr: true},
		{name: "whitespace only", payload: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := member.ParseCode(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCode(%q) error = %v, wantErr %v", tt.payload, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseCode(%q) = %q, want %q", tt.payload, got, tt.want)
			}
		})
	}
}
