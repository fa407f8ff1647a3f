package domain

import "fmt"

// Role is the closed set of authorization levels. The zero value is not a
// role and is never a member of any RoleSet.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleUser
)

const (
	roleAdminName = "admin"
	roleUserName  = "mortal"
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return roleAdminName
	case RoleUser:
		return roleUserName
	default:
		return ""
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRole maps a stored role string to a Role using exact matching.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleAdminName:
		return RoleAdmin, nil
	case roleUserName:
		return RoleUser, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// RoleSet is a set of roles allowed through a route.
type RoleSet uint8

func Roles(rs ...Role) RoleSet {
	var s RoleSet
	for _, r := range rs {
		if r.Valid() {
			s |= 1 << r
		}
	}
	return s
}

func (s RoleSet) Contains(r Role) bool {
	return r.Valid() && s&(1<<r) != 0
}

func (s RoleSet) String() string {
	out := "["
	for _, r := range []Role{RoleAdmin, RoleUser} {
		if s.Contains(r) {
			if len(out) > 1 {
				out += " "
			}
			out += r.String()
		}
	}
	return out + "]"
}

var (
	AdminOnly   = Roles(RoleAdmin)
	AdminOrUser = Roles(RoleAdmin, RoleUser)
)
