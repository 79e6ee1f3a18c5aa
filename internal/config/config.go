package config

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone AuthMode = "none" // No authentication required (default)
	AuthModePIN  AuthMode = "pin"  // Caregiver actions require the caregiver PIN
)

type (
	Config struct {
		HTTP
		Global
		Database
		Import
		Media
		Tasks
		Auth
		CORS
		Cleanup
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Import struct {
		BatchSize      int
		MaxUploadBytes int64
		UploadDir      string
		Async          bool // Run uploaded imports on the task queue instead of inline
	}
	Media struct {
		SniffContent bool // Detect MIME types from content, extension table as fallback
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		Mode            AuthMode
		PINHash         string // bcrypt hash produced by `sacha hash-pin`
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	CORS struct {
		AllowedOrigins []string
	}
	Cleanup struct {
		Enabled         bool
		Schedule        string        // Cron format: "0 * * * *" = hourly
		UploadRetention time.Duration // Age after which spooled uploads are removed
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 90)
	}
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func NewConfig() *Config {
	if err := LoadDotEnv(); err != nil {
		log.Printf("WARNING: failed to load .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Import defaults
	v.SetDefault("import_batch_size", DefaultImportBatchSize)
	v.SetDefault("import_max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("upload_dir", DefaultUploadDir)
	v.SetDefault("import_async", false)
	v.SetDefault("media_sniff_content", true)

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_pin_hash", "")
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "12h") // One caregiver session per day
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies

	v.SetDefault("cors_allowed_origins", "http://localhost:5173")

	// Scheduled cleanup defaults
	v.SetDefault("cleanup_enabled", true)
	v.SetDefault("cleanup_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("cleanup_upload_retention", "24h")
	v.SetDefault("audit_retention_days", 90)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "45m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Import: Import{
			BatchSize:      v.GetInt("IMPORT_BATCH_SIZE"),
			MaxUploadBytes: v.GetInt64("IMPORT_MAX_UPLOAD_BYTES"),
			UploadDir:      v.GetString("UPLOAD_DIR"),
			Async:          v.GetBool("IMPORT_ASYNC"),
		},
		Media: Media{
			SniffContent: v.GetBool("MEDIA_SNIFF_CONTENT"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			Mode:            AuthMode(v.GetString("AUTH_MODE")),
			PINHash:         v.GetString("AUTH_PIN_HASH"),
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Cleanup: Cleanup{
			Enabled:         v.GetBool("CLEANUP_ENABLED"),
			Schedule:        v.GetString("CLEANUP_SCHEDULE"),
			UploadRetention: v.GetDuration("CLEANUP_UPLOAD_RETENTION"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
