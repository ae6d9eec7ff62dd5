package user

import "time"

// Status values. INVITED accounts exist but cannot log in until a
// supervisor activates them.
const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusInvited   = "INVITED"
)

type User struct {
	ID    int64  `json:"userId"`
	OrgID int64  `json:"orgId"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`

	Status string `json:"status"`

	// PasswordHash is bcrypt output. Never serialized.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func validStatus(s string) bool {
	switch s {
	case StatusActive, StatusSuspended, StatusInvited:
		return true
	default:
		return false
	}
}
