package auth

import (
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/tomfrance/sacha/internal/config"
)

// Session data keys
const (
	SessionKeyCaregiver = "caregiver"
	SessionKeyLoginAt   = "login_at"
)

func init() {
	gob.Register(time.Time{})
}

// SessionManager wraps scs.SessionManager with caregiver-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by the
// sessions table of the main database.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 12 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "sacha_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession marks the session as belonging to the caregiver. The token
// is renewed first to prevent session fixation.
func (sm *SessionManager) CreateSession(r *http.Request) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Put(r.Context(), SessionKeyCaregiver, true)
	sm.Put(r.Context(), SessionKeyLoginAt, time.Now())
	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// IsCaregiver reports whether the request carries a caregiver session.
func (sm *SessionManager) IsCaregiver(r *http.Request) bool {
	return sm.GetBool(r.Context(), SessionKeyCaregiver)
}

// LoginAt returns when the caregiver logged in, zero if not logged in.
func (sm *SessionManager) LoginAt(r *http.Request) time.Time {
	loginAt, _ := sm.Get(r.Context(), SessionKeyLoginAt).(time.Time)
	return loginAt
}
