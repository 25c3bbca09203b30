package lightstreamer

import (
	"errors"
	"strconv"
)

var (
	ErrClosed              = errors.New("lightstreamer: client closed")
	ErrProtocol            = errors.New("lightstreamer: protocol error")
	ErrSessionRefused      = errors.New("lightstreamer: session refused")
	ErrSessionEnded        = errors.New("lightstreamer: session ended by server")
	ErrRequestRejected     = errors.New("lightstreamer: request rejected")
	ErrStalled             = errors.New("lightstreamer: connection stalled")
	ErrUpdatesLost         = errors.New("lightstreamer: updates lost")
	ErrInvalidSubscription = errors.New("lightstreamer: invalid subscription")
	ErrUnknownSubscription = errors.New("lightstreamer: unknown subscription")
	ErrInvalidEndpoint     = errors.New("lightstreamer: invalid endpoint")
)

// ServerError carries the code and message the server attached to a refusal
// or a termination. Sentinel is one of the Err values above.
type ServerError struct {
	Sentinel error
	Code     int
	Message  string
}

func (e *ServerError) Error() string {
	return e.Sentinel.Error() + " (" + strconv.Itoa(e.Code) + "): " + e.Message
}

func (e *ServerError) Unwrap() error {
	return e.Sentinel
}

// OverflowError reports updates dropped by the server for one item.
type OverflowError struct {
	Subscription int
	Item         string
	Lost         int
}

func (e *OverflowError) Error() string {
	return ErrUpdatesLost.Error() + ": " + strconv.Itoa(e.Lost) + " updates of " + e.Item
}

func (e *OverflowError) Unwrap() error {
	return ErrUpdatesLost
}
