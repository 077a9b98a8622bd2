package model

import "time"

// User role constants
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User is a back-office account. The public site never creates users; the
// bootstrap admin is seeded from config on first start.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
