package services

import (
	"errors"
	"fmt"
)

// ErrValidation matches any ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports invalid caller input. It is returned before the
// store is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
