package auth

import (
	"testing"
	"time"

	"hydrogen-dashboard/internal/config"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:      "secret",
		JWTIssuer:      "genau",
		AccessTokenTTL: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.Issue(now, 42, "a@x.com", "SUPERVISOR")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "a@x.com" || claims.Role != "SUPERVISOR" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "42" {
		t.Fatalf("subject = %q, want userId string", claims.Subject)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := newManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.Issue(now, 1, "u@x.com", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(tok, now.Add(16*time.Minute)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	m := newManager(t)
	other, err := NewManager(config.AuthConfig{JWTSecret: "different", AccessTokenTTL: time.Minute})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	tok, err := other.Issue(time.Now(), 1, "u@x.com", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(tok, time.Now()); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestReissueAcceptsExpiredToken(t *testing.T) {
	m := newManager(t)
	now := time.Unix(1700000000, 0).UTC()

	stale, err := m.Issue(now, 7, "u@x.com", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := now.Add(24 * time.Hour)
	fresh, err := m.Reissue(stale, later)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}

	claims, err := m.Verify(fresh, later.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify reissued: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "USER" {
		t.Fatalf("identity not carried over: %+v", claims)
	}
}

func TestReissueRejectsForeignSignature(t *testing.T) {
	m := newManager(t)
	other, _ := NewManager(config.AuthConfig{JWTSecret: "different", AccessTokenTTL: time.Minute})
	tok, err := other.Issue(time.Now(), 1, "u@x.com", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Reissue(tok, time.Now()); err == nil {
		t.Fatalf("reissue must check the signature")
	}
}
