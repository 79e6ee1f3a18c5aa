package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/config"
)

// LoginAuditor records caregiver login attempts.
type LoginAuditor interface {
	LogAuth(action, ipAddress, userAgent string, success bool)
}

// CaregiverController handles the caregiver login endpoints.
type CaregiverController struct {
	service        *Service
	sessionManager *SessionManager
	mode           config.AuthMode
	auditor        LoginAuditor
}

// NewCaregiverController creates a new caregiver controller. auditor may be nil.
func NewCaregiverController(service *Service, sessionManager *SessionManager, cfg config.Auth, auditor LoginAuditor) *CaregiverController {
	return &CaregiverController{
		service:        service,
		sessionManager: sessionManager,
		mode:           cfg.Mode,
		auditor:        auditor,
	}
}

// RegisterRoutes registers caregiver routes on the group.
func (cc *CaregiverController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/caregiver/status", cc.Status)
	group.POST("/caregiver/login", cc.Login)
	group.POST("/caregiver/logout", cc.Logout)
}

type loginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// Status handles GET /api/caregiver/status. The CSRF token for subsequent
// writes is returned in the X-CSRF-Token header.
func (cc *CaregiverController) Status(c *gin.Context) {
	if token := GetCSRFToken(c); token != "" {
		c.Header(CSRFTokenHeader, token)
	}

	caregiver := cc.mode != config.AuthModePIN
	if !caregiver && cc.sessionManager != nil {
		caregiver = cc.sessionManager.IsCaregiver(c.Request)
	}

	c.JSON(http.StatusOK, gin.H{
		"mode":      cc.mode,
		"caregiver": caregiver,
	})
}

// Login handles POST /api/caregiver/login {"pin": "1234"}.
func (cc *CaregiverController) Login(c *gin.Context) {
	if cc.mode != config.AuthModePIN || cc.service == nil || cc.sessionManager == nil {
		c.JSON(http.StatusOK, gin.H{"caregiver": true})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pin is required"})
		return
	}

	err := cc.service.Authenticate(c.ClientIP(), req.PIN)
	cc.audit(c, "caregiver_login", err == nil)
	if err != nil {
		switch {
		case errors.Is(err, ErrLockedOut):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
		case errors.Is(err, ErrInvalidPIN):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong PIN"})
		default:
			log.Printf("Caregiver login failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	if err := cc.sessionManager.CreateSession(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"caregiver": true})
}

// Logout destroys the caregiver session.
func (cc *CaregiverController) Logout(c *gin.Context) {
	if cc.sessionManager != nil {
		_ = cc.sessionManager.DestroySession(c.Request)
		cc.audit(c, "caregiver_logout", true)
	}
	c.JSON(http.StatusOK, gin.H{"caregiver": cc.mode != config.AuthModePIN})
}

func (cc *CaregiverController) audit(c *gin.Context, action string, success bool) {
	if cc.auditor == nil {
		return
	}
	cc.auditor.LogAuth(action, c.ClientIP(), c.Request.UserAgent(), success)
}
