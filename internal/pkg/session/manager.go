package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// Manager issues session tokens and resolves them back to identities.
type Manager struct {
	store Store
	jwt   *auth.JWTService
	now   func() time.Time
}

// NewManager creates a Manager.
func NewManager(store Store, jwtService *auth.JWTService) *Manager {
	return &Manager{store: store, jwt: jwtService, now: time.Now}
}

// Start opens a session for user and returns its signed token.
func (m *Manager) Start(ctx context.Context, user *models.User) (string, *Session, error) {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		RoleType:  user.RoleType,
		CreatedAt: now,
		ExpiresAt: now.Add(m.jwt.SessionExp()),
	}

	token, _, err := m.jwt.IssueSessionToken(s.ID, s.UserID, now)
	if err != nil {
		return "", nil, err
	}
	if err := m.store.Create(ctx, s); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.Debug().Int64("userID", user.ID).Str("sessionID", s.ID).Msg("Session started")
	return token, s, nil
}

// Resolve validates token and loads its session. Any failure is reported as
// apperrors.ErrUnauthorized wrapping the cause.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	s, err := m.store.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
		}
		return nil, err
	}
	if s.UserID != claims.UserID {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, apperrors.ErrTokenInvalid)
	}
	return s, nil
}

// End revokes one session.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// EndAll revokes every session of userID.
func (m *Manager) EndAll(ctx context.Context, userID int64) error {
	return m.store.DeleteUser(ctx, userID)
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.jwt.SessionExp()
}
