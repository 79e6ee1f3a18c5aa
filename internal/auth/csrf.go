package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header carrying the CSRF token both ways: the
// status endpoint returns it, caregiver writes send it back.
const CSRFTokenHeader = "X-CSRF-Token"

const contextKeyCSRFToken = "csrf_token"

// CSRFOptions configures CSRFMiddleware.
type CSRFOptions struct {
	// Secure marks the token cookie Secure and makes gorilla/csrf treat
	// requests as HTTPS. Without it requests are checked as plain HTTP.
	Secure bool
	// TrustedOrigins lists other front-end origins ("http://localhost:5173")
	// allowed to send writes, usually the CORS allow-list.
	TrustedOrigins []string
	// ExemptPaths are route patterns ("/api/categories/:id/complete") whose
	// writes skip the token check.
	ExemptPaths []string
}

// CSRFMiddleware creates a Gin middleware for CSRF protection of
// session-authenticated writes. Safe methods pass through and get a token.
func CSRFMiddleware(secret []byte, opts CSRFOptions) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(opts.Secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.TrustedOrigins(OriginHosts(opts.TrustedOrigins)),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	exempt := make(map[string]bool, len(opts.ExemptPaths))
	for _, path := range opts.ExemptPaths {
		exempt[path] = true
	}

	return func(c *gin.Context) {
		r := c.Request
		if !opts.Secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		if exempt[c.FullPath()] {
			r = csrf.UnsafeSkipCheck(r)
		}

		passed := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(contextKeyCSRFToken, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, r)
		if !passed {
			c.Abort()
		}
	}
}

// OriginHosts reduces origins such as "https://app.example.com" to the
// host[:port] form gorilla/csrf compares against. Blank and unparsable
// entries are dropped; bare hosts are kept as given.
func OriginHosts(origins []string) []string {
	var hosts []string
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" || origin == "*" {
			continue
		}
		if !strings.Contains(origin, "://") {
			hosts = append(hosts, origin)
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(contextKeyCSRFToken)
}
