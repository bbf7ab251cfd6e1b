package entity

// Identity is the caller as described by their session token. It is a
// snapshot taken at login time and is not re-read from the database on
// each request, so a role change only shows up after the next login.
type Identity struct {
	UserID     string
	Email      string
	Role       Role
	TenantID   string
	TenantSlug string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role.IsAdmin()
}
