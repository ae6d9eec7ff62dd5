package authclaims

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestDecodeSupervisorClaims(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{
		"role":  "SUPERVISOR",
		"sub":   "42",
		"email": "a@x.com",
	})

	c, err := Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Role != RoleSupervisor {
		t.Fatalf("role = %q, want SUPERVISOR", c.Role)
	}
	if c.UserID != 42 {
		t.Fatalf("userId = %d, want 42", c.UserID)
	}
	if c.Email != "a@x.com" {
		t.Fatalf("email = %q", c.Email)
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"role": "USER", "userId": 7, "email": "u@x.com", "exp": 1900000000})

	a, errA := Decode(tok)
	b, errB := Decode(tok)
	if errA != nil || errB != nil {
		t.Fatalf("decode: %v / %v", errA, errB)
	}
	if a != b {
		t.Fatalf("re-decode diverged: %+v vs %+v", a, b)
	}
}

func TestDecodeRoleFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   Role
	}{
		{"exact role wins", jwt.MapClaims{"role": "USER"}, RoleUser},
		{"unknown role ignored", jwt.MapClaims{"role": "ROOT"}, ""},
		{"roles list user", jwt.MapClaims{"roles": []string{"USER"}}, RoleUser},
		{"supervisor preferred", jwt.MapClaims{"roles": []string{"USER", "SUPERVISOR"}}, RoleSupervisor},
		{"unknown entries skipped", jwt.MapClaims{"roles": []string{"ROOT", "USER"}}, RoleUser},
		{"no role claims", jwt.MapClaims{"email": "x@y.z"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Decode(signToken(t, tc.claims))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if c.Role != tc.want {
				t.Fatalf("role = %q, want %q", c.Role, tc.want)
			}
		})
	}
}

func TestDecodeUserIDFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   int64
	}{
		{"numeric userId", jwt.MapClaims{"userId": 12}, 12},
		{"numeric sub", jwt.MapClaims{"sub": 9.0}, 9},
		{"numeric-string sub", jwt.MapClaims{"sub": "311"}, 311},
		{"userId beats sub", jwt.MapClaims{"userId": 1, "sub": "2"}, 1},
		{"non-numeric sub", jwt.MapClaims{"sub": "alice"}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Decode(signToken(t, tc.claims))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if c.UserID != tc.want {
				t.Fatalf("userId = %d, want %d", c.UserID, tc.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b", "!!.!!.!!"} {
		c, err := Decode(tok)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%q) err = %v, want ErrMalformed", tok, err)
		}
		if c != (Claims{}) {
			t.Fatalf("Decode(%q) returned non-zero claims: %+v", tok, c)
		}
	}
}

func TestExpiresWithin(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	cases := []struct {
		name string
		exp  time.Time
		want bool
	}{
		{"missing exp counts as expired", time.Time{}, true},
		{"already expired", now.Add(-time.Minute), true},
		{"inside margin", now.Add(10 * time.Second), true},
		{"outside margin", now.Add(5 * time.Minute), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Claims{ExpiresAt: tc.exp}
			if got := c.ExpiresWithin(now, 30*time.Second); got != tc.want {
				t.Fatalf("ExpiresWithin = %v, want %v", got, tc.want)
			}
		})
	}
}
