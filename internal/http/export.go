package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportController serves the inventory workbook.
type ExportController struct {
	writer  InventoryWriter
	auditor Auditor
}

func NewExportController(writer InventoryWriter, auditor Auditor) *ExportController {
	return &ExportController{writer: writer, auditor: auditor}
}

// Inventory handles GET /api/export/inventory.xlsx
func (ec *ExportController) Inventory(c *gin.Context) {
	var buf bytes.Buffer
	result, err := ec.writer.Write(c.Request.Context(), &buf)
	if ec.auditor != nil {
		ec.auditor.LogExport(fmt.Sprintf("Inventory workbook: %d levels, %d words", result.Levels, result.Words), err)
	}
	if err != nil {
		respondInternalError(c, err, "export inventory")
		return
	}

	filename := fmt.Sprintf("sacha-inventory-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
