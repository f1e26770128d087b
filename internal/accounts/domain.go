package accounts

// Role is the coarse permission level attached to an account.
type Role string

const (
	// RoleAdmin grants full dashboard access including VM management.
	RoleAdmin Role = "admin"
	// RoleViewer grants read-only dashboard access.
	RoleViewer Role = "viewer"
)

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// Satisfies reports whether the role meets the given requirement.
// Admin satisfies every requirement; this escalation rule is a
// deliberate policy, kept here so callers never compare roles directly.
func (r Role) Satisfies(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// Account is a registered credential store entry. Accounts are created
// at seed time or via signup and are immutable afterwards.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}
