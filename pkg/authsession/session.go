// Package authsession derives the operator's session view (role, user id,
// email) from the current access token and keeps it in sync with token
// changes from this context or sibling contexts.
package authsession

import (
	"context"
	"log/slog"
	"sync"

	"hydrogen-dashboard/pkg/authclaims"
	"hydrogen-dashboard/pkg/authtoken"
)

// State is the derived session view.
//
// Invariant: Role/UserID/Email are always a pure function of the current
// token's claims; an absent or unparsable token derives the zero fields.
// Initialized flips to true exactly once per process and never reverts.
type State struct {
	Role        authclaims.Role
	UserID      int64
	Email       string
	Initialized bool
}

// LogoutNotifier tells the server the session is ending. Failures are
// ignored; logout always completes locally.
type LogoutNotifier interface {
	NotifyLogout(ctx context.Context) error
}

// Session maintains State against a token store.
type Session struct {
	store    *authtoken.Store
	notifier LogoutNotifier
	log      *slog.Logger

	mu         sync.Mutex
	state      State
	watchers   []func(State)
	registered bool
	initDone   chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier installs the best-effort server logout call.
func WithNotifier(n LogoutNotifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func New(store *authtoken.Store, opts ...Option) *Session {
	s := &Session{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init runs the synchronization pass: register the token change listener
// (once per process), derive state from the current token, and mark the
// session initialized. Concurrent callers share one in-flight pass and all
// return only after it completes.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Initialized {
		s.mu.Unlock()
		return nil
	}
	if s.initDone != nil {
		done := s.initDone
		s.mu.Unlock()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	done := make(chan struct{})
	s.initDone = done
	register := !s.registered
	s.registered = true
	s.mu.Unlock()

	// The in-flight marker must be released on every path so a failed pass
	// never blocks future ones.
	defer func() {
		s.mu.Lock()
		s.initDone = nil
		s.mu.Unlock()
		close(done)
	}()

	if register {
		// One listener covers both local writes and adopted broadcasts;
		// the store already folds the transport into its change feed.
		s.store.OnChange(s.applyToken)
	}

	s.applyToken(s.store.Get())

	s.mu.Lock()
	s.state.Initialized = true
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return nil
}

// Snapshot returns the current state view.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Watch registers a subscriber notified after every state change.
func (s *Session) Watch(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// Logout notifies the server best-effort, then clears the session locally.
// The session stays initialized: logged-out is a known state, not an
// uninitialized one.
func (s *Session) Logout(ctx context.Context) {
	if s.notifier != nil {
		if err := s.notifier.NotifyLogout(ctx); err != nil {
			s.log.Warn("server logout notify failed", "err", err)
		}
	}

	s.mu.Lock()
	s.state.Initialized = true
	s.mu.Unlock()

	// Clear wipes storage, broadcasts LOGOUT and fires the change feed,
	// which nulls our derived fields through applyToken.
	s.store.Clear()
}

// applyToken rederives Role/UserID/Email from a token. Decode failures mean
// "no claims", never an error surfaced to callers.
func (s *Session) applyToken(token string) {
	var role authclaims.Role
	var userID int64
	var email string

	if token != "" {
		if c, err := authclaims.Decode(token); err == nil {
			role, userID, email = c.Role, c.UserID, c.Email
		}
	}

	s.mu.Lock()
	if s.state.Role == role && s.state.UserID == userID && s.state.Email == email {
		s.mu.Unlock()
		return
	}
	s.state.Role = role
	s.state.UserID = userID
	s.state.Email = email
	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

func (s *Session) notify(st State) {
	s.mu.Lock()
	watchers := make([]func(State), len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()
	for _, fn := range watchers {
		fn(st)
	}
}
