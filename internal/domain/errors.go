package domain

import (
	"errors"
	"fmt"
)

// Draft core errors
var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientCards = errors.New("insufficient cards")
	ErrInvalidState      = errors.New("invalid state for this action")
	ErrConflict          = errors.New("conflict")
)

// Conflicts surfaced to the user as-is; none of them are retried.
var (
	ErrAlreadyQueued   = fmt.Errorf("%w: cube is already in the featured queue", ErrConflict)
	ErrNotQueued       = fmt.Errorf("%w: cube is not in the featured queue", ErrConflict)
	ErrFeaturedLocked  = fmt.Errorf("%w: currently featured cubes cannot be changed", ErrConflict)
	ErrQueuePosition   = fmt.Errorf("%w: queue position out of range", ErrConflict)
	ErrQueueTooShort   = fmt.Errorf("%w: not enough cubes in the featured queue to rotate", ErrConflict)
	ErrEntryIndexStale = fmt.Errorf("%w: card index does not match entry", ErrConflict)
)

// ValidationError describes malformed input. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InsufficientCardsError is returned when a pack slot has no candidates left
// under either its primary or its fallback filter.
type InsufficientCardsError struct {
	SlotIndex int
	PoolSize  int
}

func (e *InsufficientCardsError) Error() string {
	return fmt.Sprintf("slot %d cannot be filled from a pool of %d cards", e.SlotIndex, e.PoolSize)
}

func (e *InsufficientCardsError) Is(target error) bool {
	return target == ErrInsufficientCards
}
