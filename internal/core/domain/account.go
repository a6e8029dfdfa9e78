package domain

import "time"

// Role is the coarse permission label carried by an account.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleDoctor     Role = "doctor"
)

// DefaultRole is assigned at registration when the caller does not pick one.
const DefaultRole = RoleTechnician

// KnownRoles lists the enumerated roles in a stable order.
var KnownRoles = []Role{RoleAdmin, RoleTechnician, RoleDoctor}

// Known reports whether r is one of the enumerated roles.
func (r Role) Known() bool {
	for _, k := range KnownRoles {
		if r == k {
			return true
		}
	}
	return false
}

// RoleSet is the allow-set a protected operation declares.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Account is an entry of the credential store.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
