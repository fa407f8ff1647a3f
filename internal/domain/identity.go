package domain

// Identity is the authenticated caller attached to a request.
type Identity struct {
	ID   string
	Role Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
