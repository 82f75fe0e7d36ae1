package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password_hash"`
	RoleType  RoleType  `json:"roleType" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Identity is the authenticated caller of a request. It is resolved from the
// session by middleware and passed explicitly to services.
type Identity struct {
	UserID   int64    `json:"id"`
	Username string   `json:"username"`
	RoleType RoleType `json:"roleType"`
}

// Identity returns the session identity for u.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, RoleType: u.RoleType}
}
