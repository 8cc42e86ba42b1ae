package app

import (
	"errors"
	"fmt"

	"fitcenter/internal/domain"
)

var (
	// ErrForbidden indicates that the caller may not act on the target user.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// actingOn returns the user a request targets. Members may only act on
// themselves.
func actingOn(caller *domain.User, target *int64) (int64, error) {
	if target == nil || *target == caller.ID {
		return caller.ID, nil
	}
	if !caller.Role.Privileged() {
		return 0, ErrForbidden
	}
	return *target, nil
}
