package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/auth"
)

// hstsMaxAge is one year in seconds.
const hstsMaxAge = 31536000

// completionPath is the route the child UI uses to toggle level progress.
// It holds no caregiver session and no CSRF token.
const completionPath = "/api/categories/:id/complete"

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAge))
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, auth.CSRFOptions{
			Secure:         cfg.SecureCookies,
			TrustedOrigins: cfg.TrustedOrigins,
			ExemptPaths:    []string{completionPath},
		}))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	requireCaregiver := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
		requireCaregiver = cfg.AuthMiddleware.RequireCaregiver()
	}

	var uploads SpoolLister
	if lister, ok := cfg.Spool.(SpoolLister); ok {
		uploads = lister
	}
	health := NewHealthController(cfg.Database, cfg.Stats, uploads, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	if cfg.CaregiverController != nil {
		cfg.CaregiverController.RegisterRoutes(api)
	}

	// Level endpoints: reads are open to the child UI
	categories := NewCategoriesController(cfg.Library, cfg.Auditor, cfg.MaxMediaBytes)
	api.GET("/categories", categories.ListCategories)
	api.GET("/categories/:id", categories.GetCategory)
	api.GET("/categories/:id/picture", categories.GetPicture)
	api.POST("/categories/:id/complete", categories.MarkCompleted)
	api.DELETE("/categories/:id/complete", categories.MarkIncomplete)

	words := NewWordsController(cfg.Library, cfg.Auditor, cfg.MaxMediaBytes)
	api.GET("/words", words.ListWords)
	api.GET("/words/:id", words.GetWord)
	api.GET("/words/:id/image", words.GetImage)
	api.GET("/words/:id/audio", words.GetAudio)

	caregiver := api.Group("", requireCaregiver)
	caregiver.POST("/categories", categories.CreateCategory)
	caregiver.PUT("/categories/:id", categories.UpdateCategory)
	caregiver.DELETE("/categories/:id", categories.DeleteCategory)
	caregiver.POST("/words", words.CreateWord)
	caregiver.DELETE("/words/:id", words.DeleteWord)

	if cfg.Imports != nil && cfg.Spool != nil {
		var queue TaskQueue
		if cfg.AsyncImports {
			queue = cfg.TaskQueue
		}
		imports := NewImportsController(cfg.Imports, cfg.Spool, queue, cfg.MaxUploadBytes)
		caregiver.POST("/imports", imports.Upload)
		caregiver.GET("/imports", imports.ListImports)
		caregiver.GET("/imports/:id", imports.GetImport)
	}

	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.UploadRetention, cfg.AuditRetentionDays)
		caregiver.GET("/tasks/types", tasksController.ListTaskTypes)
		caregiver.GET("/tasks/:id", tasksController.GetTaskStatus)
		caregiver.POST("/tasks/:type/run", tasksController.RunTask)
	}

	if cfg.Exporter != nil {
		export := NewExportController(cfg.Exporter, cfg.Auditor)
		caregiver.GET("/export/inventory.xlsx", export.Inventory)
	}

	if cfg.Auditor != nil {
		auditController := NewAuditController(cfg.Auditor)
		caregiver.GET("/audit", auditController.GetAuditEvents)
	}

	return router
}
