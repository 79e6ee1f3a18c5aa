package entrypoint

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCORSHandler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := NewCORSHandler(next, []string{"http://localhost:5173"})

	t.Run("allows the configured origin with credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("ignores other origins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("no origins leaves the handler untouched", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()

		NewCORSHandler(next, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLoadCSRFSecret(t *testing.T) {
	t.Run("decodes hex", func(t *testing.T) {
		secret, err := loadCSRFSecret("00ff10")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff, 0x10}, secret)
	})

	t.Run("uses other values as raw bytes", func(t *testing.T) {
		secret, err := loadCSRFSecret("not-hex!")
		require.NoError(t, err)
		assert.Equal(t, []byte("not-hex!"), secret)
	})

	t.Run("generates a secret when empty", func(t *testing.T) {
		secret, err := loadCSRFSecret("")
		require.NoError(t, err)
		assert.Len(t, secret, 32)
		assert.NotEqual(t, hex.EncodeToString(make([]byte, 32)), hex.EncodeToString(secret))
	})
}
