package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domain "strafenkasse/internal/domain/member"
)

// MembersForScan defines the roster port needed by ResolveScan.
type MembersForScan interface {
	List(ctx context.Context, token string) ([]domain.Member, error)
}

// ResolveScanInput carries a decoded QR payload (or a manually entered code).
type ResolveScanInput struct {
	BearerToken string
	Payload     string
}

// ResolveScanDeps holds dependencies for ResolveScan.
type ResolveScanDeps struct {
	Members MembersForScan
}

// ErrMemberNotFound marks a decodable payload that matches no member. The
// scan page treats it as non-fatal and keeps scanning.
var ErrMemberNotFound = errors.New("member not found")

// ExecuteResolveScan maps a scanned payload to a member. Prefixed codes are
// stripped first; the remainder is matched against member ids and stored
// alternate codes. Archived members never match.
// POST: Returns the matched member, ErrMemberNotFound on a miss, or
// member.ErrUnknownCode for an undecodable payload
func ExecuteResolveScan(ctx context.Context, input ResolveScanInput, deps ResolveScanDeps) (domain.Member, error) {
	code, err := domain.ParseCode(input.Payload)
	if err != nil {
		slog.Info("scan_event", "event", "undecodable")
		return domain.Member{}, err
	}

	roster, err := deps.Members.List(ctx, input.BearerToken)
	if err != nil {
		return domain.Member{}, fmt.Errorf("loading members: %w", err)
	}

	for _, m := range roster {
		if m.IsArchived() {
			continue
		}
		if m.ID == code || (m.NFCID != "" && m.NFCID == code) {
			slog.Info("scan_event", "event", "matched", "member_id", m.ID)
			return m, nil
		}
	}

	slog.Info("scan_event", "event", "no_match")
	return domain.Member{}, ErrMemberNotFound
}
