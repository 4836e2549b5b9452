package member

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Member status constants (backend vocabulary).
const (
	StatusAktiv      = "aktiv"
	StatusPassiv     = "passiv"
	StatusArchiviert = "archiviert"
)

// CodePrefix is the fixed textual prefix of identification codes. A member's
// scannable payload is CodePrefix followed by the member id.
const CodePrefix = "RHEINZEL-"

// Domain errors
var (
	ErrUnknownCode = errors.New("payload does not identify a member")
)

// Member is the client's transient copy of a roster entry. The backend owns
// the record; the client never mutates it locally.
type Member struct {
	ID     string
	Name   string
	Status string
	NFCID  string
}

// Validate checks if the Member has valid data before it is sent to the backend.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("member name cannot be empty")
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if m.Status != StatusAktiv && m.Status != StatusPassiv && m.Status != StatusArchiviert {
		return errors.New("status must be 'aktiv', 'passiv', or 'archiviert'")
	}
	return nil
}

// IsArchived returns true if the member is archived. Archived members are
// hidden from the manual identification list and cannot receive fines.
// INVARIANT: Status field is not mutated
func (m *Member) IsArchived() bool {
	return m.Status == StatusArchiviert
}

// Code returns the member's scannable identification payload.
// INVARIANT: Member fields are not mutated
func (m *Member) Code() string {
	return CodePrefix + m.ID
}

// ParseCode extracts the candidate member id from a scanned payload. Payloads
// carrying the fixed prefix have it stripped; anything else is returned as-is
// so a raw member id or stored NFC code still resolves.
// POST: Returns a non-empty candidate id or ErrUnknownCode
func ParseCode(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrUnknownCode
	}
	if rest, ok := strings.CutPrefix(payload, CodePrefix); ok {
		if rest == "" {
			return "", ErrUnknownCode
		}
		return rest, nil
	}
	return payload, nil
}
