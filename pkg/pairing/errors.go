package pairing

import (
	"errors"
	"fmt"
)

// Error kinds. Each is a distinct, inspectable value so a UI
// layer can switch on kind rather than parse a message string.
var (
	ErrCancelled = errors.New("pairing: cancelled")
	ErrTimeout   = errors.New("pairing: timed out waiting for code")
	ErrBadCode   = errors.New("pairing: bad code")
)

// ConnectFailedError wraps a failure to establish the TLS connection to the
// pairing channel.
type ConnectFailedError struct{ Cause error }

func (e *ConnectFailedError) Error() string { return fmt.Sprintf("pairing: connect failed: %v", e.Cause) }
func (e *ConnectFailedError) Unwrap() error  { return e.Cause }

// HandshakeFailedError wraps a failure during the request/response exchange
// itself (as opposed to the initial connect).
type HandshakeFailedError struct{ Cause error }

func (e *HandshakeFailedError) Error() string {
	return fmt.Sprintf("pairing: handshake failed: %v", e.Cause)
}
func (e *HandshakeFailedError) Unwrap() error { return e.Cause }

// RejectedError is returned when the television answers one of the first
// three steps with any non-OK status, or the secret step with a status that
// is neither OK nor the dedicated bad-code status.
type RejectedError struct{ Status uint64 }

func (e *RejectedError) Error() string {
	return fmt.Sprintf("pairing: rejected with status %d", e.Status)
}
