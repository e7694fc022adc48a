package token

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when TOKEN_RECEIVED arrives without a token.
	ErrInvalidTransition = errors.New("token: invalid transition")

	// ErrInvalidState is returned for snapshots that break the status/token invariant.
	ErrInvalidState = errors.New("token: invalid state")
)

// TransitionError describes a rejected transition.
// It matches ErrInvalidTransition with errors.Is.
type TransitionError struct {
	From   Status
	Signal Signal
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s from %s: %s", ErrInvalidTransition, e.Signal, e.From, e.Reason)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
