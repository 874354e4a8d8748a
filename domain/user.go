package domain

import "time"

// User is the authenticated identity carried by a verified bearer token.
// Accounts live in the managed auth service; nothing here is persisted.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != "" && u.Role != "anon"
}
