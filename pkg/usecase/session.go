package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
)

// DefaultSessionIdleTimeout is how long an unused session is kept
const DefaultSessionIdleTimeout = 30 * time.Minute

// ActiveSession pairs a session with its workflow
type ActiveSession struct {
	Session  *model.Session
	Workflow *Workflow

	lastUsed time.Time
}

// SessionUseCase owns every open session. Closing a session discards its
// cached state. Sessions unused for longer than the idle timeout are evicted.
type SessionUseCase struct {
	deps        WorkflowDeps
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[types.SessionID]*ActiveSession
}

// SessionOption configures SessionUseCase
type SessionOption func(*SessionUseCase)

// WithIdleTimeout sets the idle timeout. Non-positive values keep the default.
func WithIdleTimeout(d time.Duration) SessionOption {
	return func(uc *SessionUseCase) {
		if d > 0 {
			uc.idleTimeout = d
		}
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) SessionOption {
	return func(uc *SessionUseCase) {
		uc.now = now
	}
}

// NewSessionUseCase creates a new SessionUseCase instance
func NewSessionUseCase(deps WorkflowDeps, opts ...SessionOption) *SessionUseCase {
	uc := &SessionUseCase{
		deps:        deps,
		idleTimeout: DefaultSessionIdleTimeout,
		now:         time.Now,
		sessions:    make(map[types.SessionID]*ActiveSession),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Open starts a session for the chosen role
func (uc *SessionUseCase) Open(ctx context.Context, role types.Role) (*ActiveSession, error) {
	session, err := model.NewSession(role)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	evicted := uc.evictIdle()
	active := &ActiveSession{
		Session:  session,
		Workflow: NewWorkflow(session, uc.deps),
		lastUsed: uc.now(),
	}
	uc.sessions[session.ID] = active
	uc.mu.Unlock()

	if evicted > 0 {
		ctxlog.From(ctx).Info("Idle sessions evicted", "count", evicted)
	}

	ctxlog.From(ctx).Info("Session opened", "session_id", session.ID, "role", role)
	return active, nil
}

// Get returns an open session and marks it as used
func (uc *SessionUseCase) Get(id types.SessionID) (*ActiveSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	active, ok := uc.sessions[id]
	if ok && uc.isIdle(active) {
		delete(uc.sessions, id)
		ok = false
	}
	if !ok {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "unknown session",
			goerr.T(model.ErrTagNotFound),
			goerr.V("session_id", id))
	}
	active.lastUsed = uc.now()
	return active, nil
}

// Close tears a session down
func (uc *SessionUseCase) Close(ctx context.Context, id types.SessionID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.sessions[id]; !ok {
		return goerr.Wrap(model.ErrSessionNotFound, "unknown session",
			goerr.T(model.ErrTagNotFound),
			goerr.V("session_id", id))
	}
	delete(uc.sessions, id)

	ctxlog.From(ctx).Info("Session closed", "session_id", id)
	return nil
}

// Count returns the number of open sessions, evicting idle ones first
func (uc *SessionUseCase) Count() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.evictIdle()
	return len(uc.sessions)
}

// isIdle must be called with mu held
func (uc *SessionUseCase) isIdle(active *ActiveSession) bool {
	return uc.now().Sub(active.lastUsed) > uc.idleTimeout
}

// evictIdle must be called with mu held
func (uc *SessionUseCase) evictIdle() int {
	evicted := 0
	for id, active := range uc.sessions {
		if uc.isIdle(active) {
			delete(uc.sessions, id)
			evicted++
		}
	}
	return evicted
}
