package domain

import "time"

type Token struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now. A token
// expiring exactly at now is still valid.
func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

type User struct {
	ID        string
	Role      Role
	CreatedAt time.Time
}
