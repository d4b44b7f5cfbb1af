package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors for the repo layer. Callers match with errors.Is and map
// them to HTTP status codes in one place.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrStorage           = errors.New("storage failure")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// asNotFound maps gorm's record-not-found to ErrNotFound labelled with the
// entity. Any other driver error is wrapped as ErrStorage so it never leaks
// raw to a client.
func asNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
