package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the only claims shape issued by this service.
//
// Subject mirrors UserID as a string so consumers that only understand the
// registered sub claim still resolve the user. Role is always present in an
// issued token; USER/SUPERVISOR is the full vocabulary.
type Claims struct {
	jwt.RegisteredClaims

	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
