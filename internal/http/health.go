package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/database/levels"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Library *levels.Stats     `json:"library,omitempty"`
	Uploads *UploadsHealth    `json:"uploads,omitempty"`
}

// UploadsHealth describes archives waiting in the upload spool.
type UploadsHealth struct {
	Pending int   `json:"pending"`
	Bytes   int64 `json:"bytes"`
}

// HealthController reports the database, the level store and the upload
// spool. Any failing check makes the service unhealthy.
type HealthController struct {
	db      DatabasePinger
	stats   StoreStats
	uploads SpoolLister
	version string
}

func NewHealthController(db DatabasePinger, stats StoreStats, uploads SpoolLister, version string) *HealthController {
	return &HealthController{
		db:      db,
		stats:   stats,
		uploads: uploads,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	health := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string),
	}
	fail := func(check string, err error) {
		health.Checks[check] = "error: " + err.Error()
		health.Status = "unhealthy"
	}

	if h.db == nil {
		health.Checks["database"] = "not configured"
	} else if err := h.db.Ping(); err != nil {
		fail("database", err)
	} else {
		health.Checks["database"] = "ok"
	}

	if h.stats != nil {
		if stats, err := h.stats.Stats(c.Request.Context()); err != nil {
			fail("level_store", err)
		} else {
			health.Checks["level_store"] = "ok"
			health.Library = &stats
		}
	}

	if h.uploads != nil {
		if files, err := h.uploads.List(); err != nil {
			fail("upload_spool", err)
		} else {
			health.Checks["upload_spool"] = "ok"
			pending := UploadsHealth{Pending: len(files)}
			for _, f := range files {
				pending.Bytes += f.Size
			}
			health.Uploads = &pending
		}
	}

	statusCode := http.StatusOK
	if health.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
