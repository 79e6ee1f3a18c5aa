package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/config"
)

// Context keys
const (
	ContextKeyCaregiver = "auth_caregiver"
	ContextKeyAuthType  = "auth_type" // "session" or "none"
)

// AuthType indicates how the caregiver was recognised
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
)

// Middleware recognises caregiver sessions. Reads stay open to the child
// UI; writes go through RequireCaregiver.
type Middleware struct {
	sessionManager *SessionManager
	mode           config.AuthMode
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessionManager *SessionManager, cfg config.Auth) *Middleware {
	return &Middleware{
		sessionManager: sessionManager,
		mode:           cfg.Mode,
	}
}

// Mode returns the configured authentication mode.
func (m *Middleware) Mode() config.AuthMode {
	return m.mode
}

// Handler returns a Gin middleware that records whether the request comes
// from the caregiver.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.mode != config.AuthModePIN {
			c.Set(ContextKeyCaregiver, true)
			c.Set(ContextKeyAuthType, AuthTypeNone)
			c.Next()
			return
		}

		if m.sessionManager != nil && m.sessionManager.IsCaregiver(c.Request) {
			c.Set(ContextKeyCaregiver, true)
			c.Set(ContextKeyAuthType, AuthTypeSession)
		}
		c.Next()
	}
}

// RequireCaregiver aborts with 401 unless the request is a caregiver one.
func (m *Middleware) RequireCaregiver() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.mode == config.AuthModePIN && !IsCaregiver(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "caregiver login required",
			})
			return
		}
		c.Next()
	}
}

// IsCaregiver reports whether Handler marked the request as a caregiver one.
func IsCaregiver(c *gin.Context) bool {
	return c.GetBool(ContextKeyCaregiver)
}

// GetAuthType retrieves the authentication method used.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}
