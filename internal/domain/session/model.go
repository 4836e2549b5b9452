package session

import (
	"errors"
	"time"
)

// Timeout constants for client sessions.
const (
	// IdleTimeout logs a session out after this long without activity.
	IdleTimeout = 15 * time.Minute
	// MaxDuration logs a session out this long after login, regardless of activity.
	MaxDuration = 8 * time.Hour
)

// Human-readable logout reasons, shown on the next login screen.
const (
	ReasonManual   = ""
	ReasonIdle     = "Automatische Abmeldung wegen Inaktivität"
	ReasonMaxAge   = "Maximale Sitzungsdauer erreicht"
	ReasonRejected = "Sitzung abgelaufen"
)

// Domain errors
var (
	ErrIncomplete = errors.New("session must carry both a token and an identity")
)

// Session holds the client-side authentication state for one browser session.
// Token identifies the session locally; BearerToken authenticates against the
// remote backend.
type Session struct {
	Token        string
	BearerToken  string
	Username     string
	Role         string
	LoginTime    time.Time
	LastActivity time.Time
}

// Validate checks the both-or-none invariant: a session is either fully
// populated (token, bearer token, identity, login time) or it is not a session.
// PRE: Session struct is initialized
// POST: Returns nil if the session is complete, error otherwise
func (s *Session) Validate() error {
	if s.Token == "" || s.BearerToken == "" || s.Username == "" || s.Role == "" || s.LoginTime.IsZero() {
		return ErrIncomplete
	}
	return nil
}

// IdleExpired reports whether the idle budget is exhausted at the given time.
// INVARIANT: Session fields are not mutated
func (s *Session) IdleExpired(now time.Time) bool {
	last := s.LastActivity
	if last.IsZero() {
		last = s.LoginTime
	}
	return now.Sub(last) >= IdleTimeout
}

// AbsoluteExpired reports whether the absolute budget is exhausted at the given time.
// INVARIANT: Session fields are not mutated
func (s *Session) AbsoluteExpired(now time.Time) bool {
	return now.Sub(s.LoginTime) >= MaxDuration
}

// Expired reports whether either timeout has fired by the given time.
// INVARIANT: Session fields are not mutated
func (s *Session) Expired(now time.Time) bool {
	return s.IdleExpired(now) || s.AbsoluteExpired(now)
}

// ExpiryReason returns the logout reason for an expired session. The absolute
// ceiling wins when both budgets are exhausted.
// PRE: Expired(now) is true
func (s *Session) ExpiryReason(now time.Time) string {
	if s.AbsoluteExpired(now) {
		return ReasonMaxAge
	}
	return ReasonIdle
}

// AbsoluteRemaining returns how much of the absolute budget is left at the
// given time. Zero or negative means the session must be logged out now.
// INVARIANT: Session fields are not mutated
func (s *Session) AbsoluteRemaining(now time.Time) time.Duration {
	return s.LoginTime.Add(MaxDuration).Sub(now)
}

// Touch records user activity, resetting the idle budget.
// POST: LastActivity is set to now
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}
