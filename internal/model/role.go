package model

// Role is the permission level of an admin panel account.
type Role string

const (
	// RoleAdmin has full access; it satisfies every role check.
	RoleAdmin Role = "admin"
	// RoleEditor manages blog posts.
	RoleEditor Role = "editor"
	// RoleFormManager manages lead-capture form configurations.
	RoleFormManager Role = "form_manager"
)

// Roles lists every assignable role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleFormManager}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleFormManager:
		return true
	}
	return false
}

// capabilities maps each role to the set of roles it can act as.
var capabilities = map[Role]RoleSet{
	RoleAdmin:       NewRoleSet(RoleAdmin, RoleEditor, RoleFormManager),
	RoleEditor:      NewRoleSet(RoleEditor),
	RoleFormManager: NewRoleSet(RoleFormManager),
}

// RoleSet is an unordered set of roles.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from roles.
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

// Grants reports whether a holder of r may access a route allowing any role in allowed.
// An empty allowed set admits any valid role.
func (r Role) Grants(allowed RoleSet) bool {
	caps, ok := capabilities[r]
	if !ok {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for a := range allowed {
		if caps.Contains(a) {
			return true
		}
	}
	return false
}
