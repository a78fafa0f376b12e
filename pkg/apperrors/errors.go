package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidLevel  = errors.New("skill level must be between 0 and 4")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrTokenRevoked  = errors.New("token has been revoked")
	ErrAlreadyVoided = errors.New("document already voided")
)

// NonSequentialTransitionError is returned when a level change on an existing
// employee-skill record would move the level by anything other than one step.
// Both levels are carried so clients can correct the request.
type NonSequentialTransitionError struct {
	Current   int
	Requested int
}

func (e *NonSequentialTransitionError) Error() string {
	return fmt.Sprintf("cannot change skill level from %d to %d directly: changes must be sequential", e.Current, e.Requested)
}

// IsNonSequential reports whether err is a NonSequentialTransitionError.
func IsNonSequential(err error) (*NonSequentialTransitionError, bool) {
	var nse *NonSequentialTransitionError
	if errors.As(err, &nse) {
		return nse, true
	}
	return nil, false
}
