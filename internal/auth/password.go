package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPINLength is the shortest caregiver PIN accepted.
	MinPINLength = 4
	// MaxPINLength keeps PINs typeable on the tablet keypad.
	MaxPINLength = 12
)

var (
	ErrInvalidPIN  = errors.New("invalid PIN")
	ErrPINTooShort = errors.New("PIN must be at least 4 digits")
	ErrPINTooLong  = errors.New("PIN must be at most 12 digits")
	ErrPINNotDigit = errors.New("PIN must contain digits only")
)

// ValidatePIN checks the PIN shape without hashing it.
func ValidatePIN(pin string) error {
	if len(pin) < MinPINLength {
		return ErrPINTooShort
	}
	if len(pin) > MaxPINLength {
		return ErrPINTooLong
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrPINNotDigit
		}
	}
	return nil
}

// HashPIN creates a bcrypt hash of the caregiver PIN.
func HashPIN(pin string, cost int) (string, error) {
	if err := ValidatePIN(pin); err != nil {
		return "", err
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPIN compares a PIN with its hash.
func CheckPIN(pin, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPIN
		}
		return err
	}
	return nil
}

// GenerateSessionSecret creates a random 32-byte secret for CSRF signing.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
