// Package authtoken holds the single source of truth for the operator's
// access token: an in-memory value seeded from durable storage, kept in sync
// across contexts through a broadcast transport.
package authtoken

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// StorageKey is the durable-storage key holding the bearer token.
const StorageKey = "accessToken"

// Channel is the broadcast channel shared by all contexts of one operator.
const Channel = "auth"

// Broadcast message types.
const (
	MsgSet    = "SET"
	MsgLogout = "LOGOUT"
)

// Message is the cross-context broadcast payload. Delivery is fire-and-forget
// and may repeat; receivers must stay idempotent.
type Message struct {
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`
	Origin string `json:"origin,omitempty"`
}

// Store owns the current access token for one context.
//
// All mutations are single-writer under the store mutex; reads are cheap.
// Clear is the only operation that forces navigation to the login entry
// point, since it represents an unrecoverable end-of-session event.
type Store struct {
	mu       sync.Mutex
	token    string
	origin   string
	storage  Storage
	tr       Transport
	redirect func()
	onChange []func(token string)
	log      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithRedirect installs the hook invoked when the session ends (Clear or a
// remote LOGOUT). The gateway uses it to force navigation to the login route.
func WithRedirect(fn func()) Option {
	return func(s *Store) { s.redirect = fn }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New builds a Store seeded from storage. A storage read failure is treated
// as "no token"; a missing token is a normal logged-out state.
func New(storage Storage, tr Transport, opts ...Option) *Store {
	s := &Store{
		origin:   uuid.NewString(),
		storage:  storage,
		tr:       tr,
		redirect: func() {},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if tok, err := storage.Load(); err == nil {
		s.token = normalize(tok)
	}
	return s
}

// Get returns the in-memory token, or "" when logged out. No network call.
func (s *Store) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Set adopts a new token: memory first, then durable storage, then a SET
// broadcast so sibling contexts pick it up. Setting the empty token is the
// same as Clear: the session is over.
func (s *Store) Set(token string) {
	token = normalize(token)
	if token == "" {
		s.Clear()
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.storage.Save(token); err != nil {
		s.log.Warn("token persist failed", "err", err)
	}
	s.publish(Message{Type: MsgSet, Token: token})
	s.fireChange(token)
}

// Clear ends the session: wipes memory and storage, broadcasts LOGOUT, and
// invokes the redirect hook.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.storage.Remove(); err != nil {
		s.log.Warn("token remove failed", "err", err)
	}
	s.publish(Message{Type: MsgLogout})
	s.fireChange("")
	s.redirect()
}

// OnChange registers a listener fired after every token change, local or
// adopted from a sibling context. Listeners run on the mutating goroutine.
func (s *Store) OnChange(fn func(token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Listen consumes broadcast messages until ctx is cancelled. Run it on its
// own goroutine; it returns the transport error, or nil on cancellation.
func (s *Store) Listen(ctx context.Context) error {
	err := s.tr.Subscribe(ctx, s.handle)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// handle applies a sibling context's message. Our own broadcasts are skipped
// by origin so adoption never re-broadcasts (no echo loops). SET with an
// unchanged token and LOGOUT while logged out are deliberate no-ops.
func (s *Store) handle(m Message) {
	if m.Origin == s.origin {
		return
	}
	switch m.Type {
	case MsgSet:
		token := normalize(m.Token)
		s.mu.Lock()
		if s.token == token {
			s.mu.Unlock()
			return
		}
		s.token = token
		s.mu.Unlock()
		s.fireChange(token)
	case MsgLogout:
		s.mu.Lock()
		if s.token == "" {
			s.mu.Unlock()
			s.redirect()
			return
		}
		s.token = ""
		s.mu.Unlock()
		s.fireChange("")
		s.redirect()
	}
}

func (s *Store) publish(m Message) {
	m.Origin = s.origin
	if err := s.tr.Publish(context.Background(), m); err != nil {
		s.log.Warn("auth broadcast failed", "type", m.Type, "err", err)
	}
}

func (s *Store) fireChange(token string) {
	s.mu.Lock()
	listeners := make([]func(string), len(s.onChange))
	copy(listeners, s.onChange)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(token)
	}
}

// normalize strips an accidental "Bearer " prefix so the stored value is
// always the raw credential.
func normalize(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
