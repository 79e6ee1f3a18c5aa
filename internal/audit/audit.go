package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ReportWriter keeps full import reports as JSON files next to the audit
// trail, which only stores a summary line per import.
type ReportWriter struct {
	Dir string
}

func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{Dir: dir}
}

// Save writes data as indented JSON to a file named after a fresh UUID and
// returns that file name.
func (w *ReportWriter) Save(data any) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	filename := uuid.New().String() + ".json"
	reportPath := filepath.Join(w.Dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(reportPath, jsonData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	log.Printf("Saved import report: %s", reportPath)
	return filename, nil
}
