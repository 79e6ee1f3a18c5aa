package auth

import (
	"errors"
	"fmt"

	"github.com/tomfrance/sacha/internal/config"
)

var (
	ErrPINNotConfigured = errors.New("caregiver PIN is not configured")
	ErrLockedOut        = errors.New("too many failed attempts")
)

// Service verifies caregiver PINs against the configured bcrypt hash.
type Service struct {
	pinHash string
	limiter *RateLimiter
}

// NewService creates a caregiver service. In "pin" mode the hash must be set.
func NewService(cfg config.Auth) (*Service, error) {
	if cfg.Mode == config.AuthModePIN && cfg.PINHash == "" {
		return nil, fmt.Errorf("AUTH_MODE=pin: %w (run `sacha hash-pin`)", ErrPINNotConfigured)
	}
	return &Service{
		pinHash: cfg.PINHash,
		limiter: NewRateLimiter(DefaultRateLimitConfig()),
	}, nil
}

// Authenticate checks pin for a client. Failures count towards the
// client's lockout; a locked-out client is refused without a bcrypt check.
func (s *Service) Authenticate(clientIP, pin string) error {
	if s.pinHash == "" {
		return ErrPINNotConfigured
	}
	if allowed, _ := s.limiter.Allow(clientIP); !allowed {
		return ErrLockedOut
	}

	if err := CheckPIN(pin, s.pinHash); err != nil {
		s.limiter.RecordFailure(clientIP)
		return err
	}

	s.limiter.RecordSuccess(clientIP)
	return nil
}
