// Package auth guards the caregiver area.
//
// Two modes are supported:
//   - "none": everything is open (default)
//   - "pin": creating, editing, deleting and importing levels requires a
//     caregiver session obtained with the caregiver PIN
//
// Reads always stay open so the child UI works without logging in.
//
// # Configuration
//
//	AUTH_MODE=pin
//	AUTH_PIN_HASH=<bcrypt hash>        # produce with `sacha hash-pin`
//	AUTH_SESSION_LIFETIME=12h
//	AUTH_SESSION_SECRET=<hex 32 bytes> # CSRF key, auto-generated if empty
//	AUTH_SECURE_COOKIES=true
//
// Sessions live in the main SQLite database (scs sqlite3store). Writes made
// with a session cookie must echo the token from GET /api/caregiver/status
// in the X-CSRF-Token header.
package auth
