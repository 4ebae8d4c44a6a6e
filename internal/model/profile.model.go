package model

import "time"

// Role values carried on profiles and sessions.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Profile mirrors the identity provider's user record.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
