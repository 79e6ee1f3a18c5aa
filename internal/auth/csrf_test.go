package auth

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testCSRFSecret = []byte("test-secret-key-32-bytes-long!!!")

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, CSRFOptions{}))
	router.GET("/api/categories", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for GET request, got %d", rr.Code)
	}
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	reached := false
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, CSRFOptions{}))
	router.POST("/api/categories", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/categories", nil))

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for POST without CSRF token, got %d", rr.Code)
	}
	if reached {
		t.Error("handler must not run when the CSRF check fails")
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON error, got %s", ct)
	}
}

func TestCSRFMiddleware_SetsTokenInContext(t *testing.T) {
	var csrfToken string
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, CSRFOptions{}))
	router.GET("/api/caregiver/status", func(c *gin.Context) {
		csrfToken = GetCSRFToken(c)
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/caregiver/status", nil))

	if csrfToken == "" {
		t.Error("Expected CSRF token to be set in context")
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if token := GetCSRFToken(c); token != "" {
		t.Errorf("Expected empty token, got %s", token)
	}
}

const pwaOrigin = "http://localhost:5173"

// newCSRFServer serves a status route that hands out the token and a
// caregiver write route behind the CSRF check.
func newCSRFServer(t *testing.T, opts CSRFOptions) *httptest.Server {
	t.Helper()
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, opts))
	router.GET("/api/caregiver/status", func(c *gin.Context) {
		c.Header(CSRFTokenHeader, GetCSRFToken(c))
		c.Status(http.StatusOK)
	})
	router.POST("/api/categories", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	router.POST("/api/categories/:id/complete", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// fetchToken performs the status round trip and returns a client whose jar
// holds the CSRF cookie, together with the token to echo back.
func fetchToken(t *testing.T, srv *httptest.Server) (*http.Client, string) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New failed: %v", err)
	}
	client := &http.Client{Jar: jar}

	resp, err := client.Get(srv.URL + "/api/caregiver/status")
	if err != nil {
		t.Fatalf("GET status failed: %v", err)
	}
	resp.Body.Close()

	token := resp.Header.Get(CSRFTokenHeader)
	if token == "" {
		t.Fatal("Expected a CSRF token from the status endpoint")
	}
	return client, token
}

func postWithToken(t *testing.T, client *http.Client, url, token, origin string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	if token != "" {
		req.Header.Set(CSRFTokenHeader, token)
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestCSRFMiddleware_TokenRoundTripOverHTTP(t *testing.T) {
	srv := newCSRFServer(t, CSRFOptions{TrustedOrigins: []string{pwaOrigin}})
	client, token := fetchToken(t, srv)

	tests := []struct {
		name   string
		origin string
		want   int
	}{
		{"no Origin header", "", http.StatusCreated},
		{"same-origin browser request", srv.URL, http.StatusCreated},
		{"trusted front-end origin", pwaOrigin, http.StatusCreated},
		{"unknown origin", "http://evil.example", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postWithToken(t, client, srv.URL+"/api/categories", token, tt.origin); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCSRFMiddleware_RejectsWrongToken(t *testing.T) {
	srv := newCSRFServer(t, CSRFOptions{})
	client, _ := fetchToken(t, srv)

	if got := postWithToken(t, client, srv.URL+"/api/categories", "bm90LWEtdG9rZW4=", ""); got != http.StatusForbidden {
		t.Errorf("Expected 403 for a forged token, got %d", got)
	}
}

func TestCSRFMiddleware_ExemptPathSkipsCheck(t *testing.T) {
	srv := newCSRFServer(t, CSRFOptions{ExemptPaths: []string{"/api/categories/:id/complete"}})

	if got := postWithToken(t, http.DefaultClient, srv.URL+"/api/categories/3/complete", "", ""); got != http.StatusOK {
		t.Errorf("Expected exempt route to pass without a token, got %d", got)
	}
	if got := postWithToken(t, http.DefaultClient, srv.URL+"/api/categories", "", ""); got != http.StatusForbidden {
		t.Errorf("Expected other writes to still need a token, got %d", got)
	}
}

func TestOriginHosts(t *testing.T) {
	got := OriginHosts([]string{"http://localhost:5173", " https://app.example.com ", "", "*", "tablet.local:8080", "://bad"})
	want := []string{"localhost:5173", "app.example.com", "tablet.local:8080"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
