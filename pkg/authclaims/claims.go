package authclaims

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role values carried by dashboard access tokens.
// The server owns the vocabulary; anything else is treated as no role.
type Role string

const (
	RoleUser       Role = "USER"
	RoleSupervisor Role = "SUPERVISOR"
)

// Claims is the client-side view of an access token payload.
//
// Invariants:
// - Zero-value fields mean "claim absent", never "claim invalid".
// - ExpiresAt is the zero time when the token carries no usable exp claim;
//   callers must treat that as already expired.
type Claims struct {
	Role      Role
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

var ErrMalformed = errors.New("authclaims: malformed token")

// Decode parses the payload of a JWT without verifying its signature.
// The dashboard client never holds the signing secret; verification is the
// server's job. Structural problems yield ErrMalformed and a zero Claims,
// never a panic.
func Decode(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrMalformed
	}

	raw := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, raw); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	c := Claims{
		Role:   roleFrom(raw),
		UserID: userIDFrom(raw),
		Email:  emailFrom(raw),
	}
	if exp, err := raw.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// ExpiresWithin reports whether the token's expiry falls inside now+margin.
// A missing or unusable exp claim counts as already expired.
func (c Claims) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return true
	}
	return !c.ExpiresAt.After(now.Add(margin))
}

// roleFrom prefers an exact "role" claim, then falls back to a "roles" list
// where SUPERVISOR wins over USER.
func roleFrom(raw jwt.MapClaims) Role {
	if r, ok := raw["role"].(string); ok {
		if r == string(RoleUser) || r == string(RoleSupervisor) {
			return Role(r)
		}
	}
	list, ok := raw["roles"].([]any)
	if !ok {
		return ""
	}
	var found Role
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			continue
		}
		switch Role(s) {
		case RoleSupervisor:
			return RoleSupervisor
		case RoleUser:
			found = RoleUser
		}
	}
	return found
}

// userIDFrom accepts a numeric userId claim, then a numeric or
// numeric-string sub claim.
func userIDFrom(raw jwt.MapClaims) int64 {
	if n, ok := asInt64(raw["userId"]); ok {
		return n
	}
	if n, ok := asInt64(raw["sub"]); ok {
		return n
	}
	return 0
}

func emailFrom(raw jwt.MapClaims) string {
	s, _ := raw["email"].(string)
	return s
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
