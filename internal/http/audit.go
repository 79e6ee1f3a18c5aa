package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tomfrance/sacha/internal/entities"
)

type AuditController struct {
	auditor Auditor
}

func NewAuditController(auditor Auditor) *AuditController {
	return &AuditController{auditor: auditor}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	offset := (page - 1) * limit

	eventType := entities.AuditEventType(c.Query("type"))
	events, total, err := ac.auditor.GetEvents(c.Request.Context(), eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": totalPages,
		"event_types": getEventTypes(),
	})
}

func getEventTypes() []entities.AuditEventType {
	return []entities.AuditEventType{
		entities.AuditEventImport,
		entities.AuditEventExport,
		entities.AuditEventDelete,
		entities.AuditEventAuth,
	}
}
