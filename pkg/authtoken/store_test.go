package authtoken

import (
	"context"
	"sync"
	"testing"
)

// fakeTransport records publishes and lets tests inject remote messages.
type fakeTransport struct {
	mu        sync.Mutex
	published []Message
	handler   func(Message)
}

func (f *fakeTransport) Publish(_ context.Context, m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, m)
	return nil
}

func (f *fakeTransport) Subscribe(ctx context.Context, fn func(Message)) error {
	f.mu.Lock()
	f.handler = fn
	f.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeTransport) sent() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.published))
	copy(out, f.published)
	return out
}

func TestSetPersistsAndBroadcasts(t *testing.T) {
	storage := &MemStorage{}
	tr := &fakeTransport{}
	s := New(storage, tr)

	s.Set("tok-1")

	if got := s.Get(); got != "tok-1" {
		t.Fatalf("Get = %q", got)
	}
	if !storage.Has() {
		t.Fatalf("token not persisted")
	}
	msgs := tr.sent()
	if len(msgs) != 1 || msgs[0].Type != MsgSet || msgs[0].Token != "tok-1" {
		t.Fatalf("unexpected broadcast: %+v", msgs)
	}
	if msgs[0].Origin == "" {
		t.Fatalf("broadcast missing origin")
	}
}

func TestSetStripsBearerPrefix(t *testing.T) {
	s := New(&MemStorage{}, &fakeTransport{})
	s.Set("Bearer tok-2")
	if got := s.Get(); got != "tok-2" {
		t.Fatalf("Get = %q, want raw credential", got)
	}
}

func TestClearEndsSession(t *testing.T) {
	storage := &MemStorage{}
	tr := &fakeTransport{}
	redirected := false
	s := New(storage, tr, WithRedirect(func() { redirected = true }))
	s.Set("tok")

	s.Clear()

	if s.Get() != "" {
		t.Fatalf("token survived Clear")
	}
	if storage.Has() {
		t.Fatalf("durable token survived Clear")
	}
	msgs := tr.sent()
	if len(msgs) != 2 || msgs[1].Type != MsgLogout {
		t.Fatalf("expected LOGOUT broadcast, got %+v", msgs)
	}
	if !redirected {
		t.Fatalf("redirect hook not invoked")
	}
}

func TestSetEmptyEqualsClear(t *testing.T) {
	storage := &MemStorage{}
	tr := &fakeTransport{}
	redirected := false
	s := New(storage, tr, WithRedirect(func() { redirected = true }))
	s.Set("tok")

	s.Set("")

	if s.Get() != "" || storage.Has() {
		t.Fatalf("token survived empty Set")
	}
	msgs := tr.sent()
	if len(msgs) != 2 || msgs[1].Type != MsgLogout {
		t.Fatalf("expected LOGOUT broadcast, got %+v", msgs)
	}
	if !redirected {
		t.Fatalf("redirect hook not invoked")
	}
}

func TestHandleAdoptsRemoteSetWithoutEcho(t *testing.T) {
	tr := &fakeTransport{}
	s := New(&MemStorage{}, tr)

	var changes []string
	s.OnChange(func(tok string) { changes = append(changes, tok) })

	s.handle(Message{Type: MsgSet, Token: "remote-tok", Origin: "other"})

	if got := s.Get(); got != "remote-tok" {
		t.Fatalf("Get = %q", got)
	}
	if len(tr.sent()) != 0 {
		t.Fatalf("adoption must not re-broadcast, sent %+v", tr.sent())
	}
	if len(changes) != 1 || changes[0] != "remote-tok" {
		t.Fatalf("changes = %v", changes)
	}
}

func TestHandleIgnoresOwnMessages(t *testing.T) {
	s := New(&MemStorage{}, &fakeTransport{})
	s.Set("local")

	s.handle(Message{Type: MsgLogout, Origin: s.origin})

	if got := s.Get(); got != "local" {
		t.Fatalf("own echo mutated store: %q", got)
	}
}

func TestHandleIsIdempotent(t *testing.T) {
	s := New(&MemStorage{}, &fakeTransport{})

	var changes int
	s.OnChange(func(string) { changes++ })

	s.handle(Message{Type: MsgSet, Token: "tok", Origin: "other"})
	s.handle(Message{Type: MsgSet, Token: "tok", Origin: "other"})
	if changes != 1 {
		t.Fatalf("duplicate SET fired %d changes", changes)
	}

	s.handle(Message{Type: MsgLogout, Origin: "other"})
	s.handle(Message{Type: MsgLogout, Origin: "other"})
	if changes != 2 {
		t.Fatalf("duplicate LOGOUT fired %d changes", changes)
	}
	if s.Get() != "" {
		t.Fatalf("LOGOUT did not clear token")
	}
}

func TestRemoteLogoutRedirects(t *testing.T) {
	redirects := 0
	s := New(&MemStorage{}, &fakeTransport{}, WithRedirect(func() { redirects++ }))
	s.Set("tok")

	s.handle(Message{Type: MsgLogout, Origin: "other"})

	if s.Get() != "" || redirects != 1 {
		t.Fatalf("token=%q redirects=%d", s.Get(), redirects)
	}
}

func TestNewSeedsFromStorage(t *testing.T) {
	storage := &MemStorage{}
	if err := storage.Save("persisted"); err != nil {
		t.Fatalf("save: %v", err)
	}
	s := New(storage, NoopTransport{})
	if got := s.Get(); got != "persisted" {
		t.Fatalf("Get = %q", got)
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	fs := NewFileStorage(t.TempDir())

	if tok, err := fs.Load(); err != nil || tok != "" {
		t.Fatalf("empty load: %q %v", tok, err)
	}
	if err := fs.Save("tok-file"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if tok, err := fs.Load(); err != nil || tok != "tok-file" {
		t.Fatalf("load: %q %v", tok, err)
	}
	if err := fs.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if tok, _ := fs.Load(); tok != "" {
		t.Fatalf("token survived remove: %q", tok)
	}
	// Removing twice must stay a no-op.
	if err := fs.Remove(); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestFileStorageWithoutStateDirIsNoop(t *testing.T) {
	fs := NewFileStorage("")
	if err := fs.Save("tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if tok, err := fs.Load(); err != nil || tok != "" {
		t.Fatalf("load: %q %v", tok, err)
	}
}
