// Package session keeps server-side login sessions. Clients hold a signed
// token naming a session; deleting the session revokes the token.
package session

import (
	"context"
	"time"

	"github.com/yigit/coursehub/internal/app/models"
)

// Session is the server-side record behind a session token.
type Session struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"userId"`
	Username  string          `json:"username"`
	RoleType  models.RoleType `json:"roleType"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Identity returns the caller identity stored in the session.
func (s *Session) Identity() models.Identity {
	return models.Identity{UserID: s.UserID, Username: s.Username, RoleType: s.RoleType}
}

// Store persists sessions until they expire or are deleted.
type Store interface {
	Create(ctx context.Context, s *Session) error
	// Get returns apperrors.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteUser removes every session of userID.
	DeleteUser(ctx context.Context, userID int64) error
}
