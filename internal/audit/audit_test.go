package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWriter_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	writer := NewReportWriter(dir)

	report := map[string]interface{}{
		"archive":  "levels.zip",
		"words":    12,
		"warnings": []string{"level2: no background"},
	}

	filename, err := writer.Save(report)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".json"))

	content, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)

	var loaded map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &loaded))
	assert.Equal(t, "levels.zip", loaded["archive"])
	assert.Equal(t, float64(12), loaded["words"])
}

func TestReportWriter_UniqueNames(t *testing.T) {
	writer := NewReportWriter(t.TempDir())

	first, err := writer.Save("a")
	require.NoError(t, err)
	second, err := writer.Save("b")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestReportWriter_UnmarshalableData(t *testing.T) {
	writer := NewReportWriter(t.TempDir())
	_, err := writer.Save(make(chan int))
	assert.Error(t, err)
}
