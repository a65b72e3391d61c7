package nav

import "errors"

// Sentinel errors for the nav package.
var (
	// ErrNotConnected indicates the client is not connected to the server.
	ErrNotConnected = errors.New("nav: not connected")

	// ErrConnectionClosed indicates the goal channel closed while a goal
	// was still in flight.
	ErrConnectionClosed = errors.New("nav: connection closed")

	// ErrServerUnavailable indicates the server probe never succeeded.
	ErrServerUnavailable = errors.New("nav: server unavailable")
)
