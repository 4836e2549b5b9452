package sessions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	store "strafenkasse/internal/adapters/storage/session"
	domain "strafenkasse/internal/domain/session"
)

// Manager owns the lifecycle of browser sessions: creation on login,
// persistence, the idle/absolute watchdog timers, and teardown. Timers are
// owned per session and are always cancelled on logout, so a stale timer can
// never fire into a later session.
type Manager struct {
	store store.Store

	mu        sync.Mutex
	watchdogs map[string]*watchdog

	// Overridable in tests.
	idleTimeout time.Duration
	maxDuration time.Duration
	now         func() time.Time
}

// watchdog holds the two independent cancellable timers of one session.
type watchdog struct {
	idle     *time.Timer
	absolute *time.Timer
}

func (w *watchdog) stop() {
	w.idle.Stop()
	w.absolute.Stop()
}

// NewManager creates a session manager backed by the given store.
func NewManager(s store.Store) *Manager {
	return &Manager{
		store:       s,
		watchdogs:   make(map[string]*watchdog),
		idleTimeout: domain.IdleTimeout,
		maxDuration: domain.MaxDuration,
		now:         time.Now,
	}
}

// logoutReasonTTL bounds how long a recorded logout reason is kept for a
// browser that never comes back. Generous enough that the next morning's
// login still sees yesterday evening's timeout.
const logoutReasonTTL = 24 * time.Hour

// Rehydrate loads persisted sessions after a restart. Sessions whose budgets
// are already exhausted are logged out before the first request is served;
// the rest get fresh watchdog timers (the idle budget restarts, the absolute
// budget is recomputed from the persisted login time). Logout reasons past
// their TTL are purged here, so abandoned cookies don't pile up rows.
// POST: Every surviving session has both timers armed
func (m *Manager) Rehydrate(ctx context.Context) error {
	sessions, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	now := m.now()
	if err := m.store.PurgeLogoutReasons(ctx, now.Add(-logoutReasonTTL)); err != nil {
		slog.Warn("session_event", "event", "reason_purge_failed", "error", err.Error())
	}
	for _, sess := range sessions {
		if sess.AbsoluteExpired(now) || sess.IdleExpired(now) {
			reason := sess.ExpiryReason(now)
			if err := m.Logout(ctx, sess.Token, reason); err != nil {
				return err
			}
			slog.Info("session_event", "event", "expired_on_load", "username", sess.Username, "reason", reason)
			continue
		}
		m.arm(sess)
	}
	return nil
}

// Create starts a new session after a successful backend login.
// PRE: bearerToken, username, role are non-empty
// POST: Session is persisted with both timers armed; returns the session
func (m *Manager) Create(ctx context.Context, bearerToken, username, role string) (domain.Session, error) {
	now := m.now()
	sess := domain.Session{
		Token:        uuid.New().String(),
		BearerToken:  bearerToken,
		Username:     username,
		Role:         role,
		LoginTime:    now,
		LastActivity: now,
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	m.arm(sess)
	slog.Info("session_event", "event", "created", "username", username, "role", role)
	return sess, nil
}

// Get returns a live session. Expiry is enforced on read as well, so a
// session that outlived its budget while the process was stopped cannot be
// used even before Rehydrate ran.
// POST: Returns (session, true) only for sessions inside both budgets
func (m *Manager) Get(ctx context.Context, token string) (domain.Session, bool) {
	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return domain.Session{}, false
	}
	if now := m.now(); sess.Expired(now) {
		reason := sess.ExpiryReason(now)
		if err := m.Logout(ctx, token, reason); err != nil {
			slog.Error("session_event", "event", "expire_failed", "error", err.Error())
		}
		return domain.Session{}, false
	}
	return sess, true
}

// Touch records user activity: the idle budget restarts, the absolute budget
// is untouched.
// PRE: token belongs to a live session
func (m *Manager) Touch(ctx context.Context, token string) {
	if err := m.store.Touch(ctx, token, m.now()); err != nil {
		slog.Error("session_event", "event", "touch_failed", "error", err.Error())
		return
	}
	m.mu.Lock()
	if w, ok := m.watchdogs[token]; ok {
		w.idle.Reset(m.idleTimeout)
	}
	m.mu.Unlock()
}

// Logout ends a session for any reason (manual, idle, absolute, rejected
// token). Both timers are cancelled, the persisted slots are cleared, and a
// non-empty reason is recorded in the transient slot for the next login
// screen.
// POST: No timer of this session can fire afterwards
func (m *Manager) Logout(ctx context.Context, token, reason string) error {
	m.mu.Lock()
	if w, ok := m.watchdogs[token]; ok {
		w.stop()
		delete(m.watchdogs, token)
	}
	m.mu.Unlock()

	if err := m.store.Delete(ctx, token); err != nil {
		return err
	}
	if reason != "" {
		if err := m.store.SaveLogoutReason(ctx, token, reason); err != nil {
			return err
		}
	}
	slog.Info("session_event", "event", "logged_out", "reason", reason)
	return nil
}

// LogoutReason returns the reason recorded for an ended session, or "".
func (m *Manager) LogoutReason(ctx context.Context, token string) string {
	reason, err := m.store.GetLogoutReason(ctx, token)
	if err != nil {
		slog.Error("session_event", "event", "reason_lookup_failed", "error", err.Error())
		return ""
	}
	return reason
}

// ClearLogoutReason empties the transient slot, called on successful login.
func (m *Manager) ClearLogoutReason(ctx context.Context, token string) {
	if err := m.store.DeleteLogoutReason(ctx, token); err != nil {
		slog.Error("session_event", "event", "reason_clear_failed", "error", err.Error())
	}
}

// Stop cancels all watchdog timers, used on shutdown. Persisted sessions
// survive and are re-armed by the next Rehydrate.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, w := range m.watchdogs {
		w.stop()
		delete(m.watchdogs, token)
	}
}

// arm starts both watchdog timers for a session. The absolute timer gets the
// remaining budget, not the full ceiling, so re-hydrated sessions keep their
// original deadline.
func (m *Manager) arm(sess domain.Session) {
	token := sess.Token
	remaining := sess.AbsoluteRemaining(m.now())

	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.watchdogs[token]; ok {
		w.stop()
	}
	m.watchdogs[token] = &watchdog{
		idle:     time.AfterFunc(m.idleTimeout, func() { m.expire(token, domain.ReasonIdle) }),
		absolute: time.AfterFunc(remaining, func() { m.expire(token, domain.ReasonMaxAge) }),
	}
}

// expire is the timer callback. Logout is idempotent, so a race between the
// two timers (or a timer and a manual logout) ends the session exactly once.
func (m *Manager) expire(token, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Only record a reason if the session still exists; otherwise the timer
	// lost the race against an earlier logout.
	if _, err := m.store.Get(ctx, token); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("session_event", "event", "expire_lookup_failed", "error", err.Error())
		}
		return
	}
	if err := m.Logout(ctx, token, reason); err != nil {
		slog.Error("session_event", "event", "expire_failed", "error", err.Error())
		return
	}
	slog.Info("session_event", "event", "timed_out", "reason", reason)
}
