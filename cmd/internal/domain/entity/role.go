package entity

// Role is the coarse permission level a user holds inside their tenant.
type Role string

const (
	// RoleAdmin may manage users, change the tenant subscription and
	// send upgrade invitations. Admins get no access to other users' notes.
	RoleAdmin Role = "admin"

	// RoleMember may only manage their own notes.
	RoleMember Role = "member"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
