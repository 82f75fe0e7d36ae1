package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/session"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "session"

const (
	identityKey  = "identity"
	sessionIDKey = "sessionID"
)

// AuthMiddleware resolves session tokens into request identities.
type AuthMiddleware struct {
	sessions *session.Manager
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// SessionAuth requires a live session. The token is read from the
// Authorization header first, then from the session cookie.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header or session cookie missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		s, err := m.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(identityKey, s.Identity())
		c.Set(sessionIDKey, s.ID)
		c.Next()
	}
}

// RoleRequired rejects callers whose role is not role. It must run after
// SessionAuth.
func (m *AuthMiddleware) RoleRequired(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			HandleAPIError(c, apperrors.ErrUnauthorized)
			return
		}
		if identity.RoleType != role {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity set by SessionAuth.
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// GetSessionID returns the session id set by SessionAuth.
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
