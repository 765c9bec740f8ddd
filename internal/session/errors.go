package session

import (
	"errors"
	"fmt"
)

var ErrPaused = errors.New("session: paused")

// LostConnectionMessage is the status shown after the service dropped a
// live session.
const LostConnectionMessage = "The connection to the practice service was lost. Start the session again to continue."

// ConnectError means the live service could not be reached. The session
// stays idle and the operator may retry.
type ConnectError struct {
	PersonaID string
	Err       error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect as %s: %v", e.PersonaID, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// StatusMessage is the text shown to the operator.
func (e *ConnectError) StatusMessage() string {
	return "Could not connect to the practice service. Please try again."
}

// DeliveryError means a submitted entry was recorded but never reached the
// live service. It is not retried.
type DeliveryError struct {
	EntryID string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver entry %s: %v", e.EntryID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
