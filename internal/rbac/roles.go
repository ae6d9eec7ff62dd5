package rbac

// Role names. Keep these stable; they are part of the token contract.
const (
	RoleUser       = "USER"
	RoleSupervisor = "SUPERVISOR"
)

func IsSupervisor(role string) bool { return role == RoleSupervisor }

func IsKnown(role string) bool {
	return role == RoleUser || role == RoleSupervisor
}
