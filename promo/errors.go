package promo

import (
	"errors"
	"fmt"
)

// ErrInvalidPromo is the sentinel behind every *ValidationError.
var ErrInvalidPromo = errors.New("invalid promo definition")

// ValidationError describes a malformed promo definition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid promo: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidPromo }
