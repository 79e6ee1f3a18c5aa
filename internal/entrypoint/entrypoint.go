package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/tomfrance/sacha/internal/audit"
	"github.com/tomfrance/sacha/internal/auth"
	"github.com/tomfrance/sacha/internal/config"
	"github.com/tomfrance/sacha/internal/database"
	auditstore "github.com/tomfrance/sacha/internal/database/audit"
	"github.com/tomfrance/sacha/internal/database/imports"
	"github.com/tomfrance/sacha/internal/database/levels"
	"github.com/tomfrance/sacha/internal/exporters"
	http_controllers "github.com/tomfrance/sacha/internal/http"
	"github.com/tomfrance/sacha/internal/importers"
	"github.com/tomfrance/sacha/internal/media"
	"github.com/tomfrance/sacha/internal/scheduler"
	"github.com/tomfrance/sacha/internal/services"
	"github.com/tomfrance/sacha/internal/storage"
	"github.com/tomfrance/sacha/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// NewCORSHandler lets the PWA origins call the API with the caregiver
// session cookie.
func NewCORSHandler(handler http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return handler
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", auth.CSRFTokenHeader},
		ExposedHeaders:   []string{auth.CSRFTokenHeader},
		AllowCredentials: true,
	}).Handler(handler)
}

func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is syscall.SIGINT, kill (no param) sends syscall.SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after the last request has been answered.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Sacha v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	detector := media.NewDetector(cfg.Media.SniffContent)
	store := levels.NewRepository(db.DB)
	store.SetBatchSize(cfg.Import.BatchSize)
	library := services.NewLibrary(store, detector)

	auditService := audit.NewService(auditstore.NewRepository(db.DB))
	defer auditService.Wait()

	importer := importers.NewImporter(store, importers.Options{
		BatchSize: cfg.Import.BatchSize,
		Detector:  detector,
	})
	sessions := imports.NewRepository(db.DB)
	importService := services.NewImportService(sessions, importer, auditService)

	spool, err := storage.NewSpool(cfg.Import.UploadDir, ".zip")
	if err != nil {
		log.Fatalf("Failed to initialize upload directory: %v", err)
	}
	log.Printf("Uploads are stored in %s", spool.Dir())
	uploadCleaner := services.NewUploadCleaner(sessions, spool)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var cleanupScheduler *scheduler.CleanupScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewImportArchiveQueue(importService),
			tasks.NewCleanupUploadsQueue(uploadCleaner),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		taskClient.Start(taskCtx)

		if cfg.Cleanup.Enabled {
			cleanupScheduler = scheduler.NewCleanupScheduler(taskClient, cfg.Cleanup.Schedule,
				tasks.CleanupUploadsTask{RetentionHours: int(cfg.Cleanup.UploadRetention / time.Hour)},
				tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays},
			)
			if err := cleanupScheduler.Start(taskCtx); err != nil {
				log.Printf("WARNING: cleanup scheduler disabled: %v", err)
				cleanupScheduler = nil
			}
		}
	} else if cfg.Import.Async {
		log.Printf("WARNING: IMPORT_ASYNC needs TASKS_ENABLED; uploads will be imported inline")
	}

	authService, err := auth.NewService(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize caregiver authentication: %v", err)
	}

	var sessionManager *auth.SessionManager
	var csrfSecret []byte
	if cfg.Auth.Mode == config.AuthModePIN {
		log.Printf("Authentication mode: pin (caregiver actions require a PIN)")

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		csrfSecret, err = loadCSRFSecret(cfg.Auth.SessionSecret)
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:            db,
		Library:             library,
		Stats:               store,
		Auditor:             auditService,
		Imports:             importService,
		Spool:               spool,
		MaxUploadBytes:      cfg.Import.MaxUploadBytes,
		AsyncImports:        cfg.Import.Async,
		MaxMediaBytes:       http_controllers.DefaultMaxMediaBytes,
		Exporter:            exporters.NewInventoryExporter(store),
		UploadRetention:     cfg.Cleanup.UploadRetention,
		AuditRetentionDays:  cfg.Audit.RetentionDays,
		SessionManager:      sessionManager,
		AuthMiddleware:      auth.NewMiddleware(sessionManager, cfg.Auth),
		CaregiverController: auth.NewCaregiverController(authService, sessionManager, cfg.Auth, auditService),
		CSRFSecret:          csrfSecret,
		SecureCookies:       cfg.Auth.SecureCookies,
		TrustedOrigins:      cfg.CORS.AllowedOrigins,
		Version:             version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(NewCORSHandler(router, cfg.CORS.AllowedOrigins), cfg, onShutdown)
}

// loadCSRFSecret decodes a hex AUTH_SESSION_SECRET, uses any other value
// as raw bytes, and generates a secret when none is configured.
func loadCSRFSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(secret)
}
