package waypoint

import "errors"

// Sentinel errors for the waypoint package.
var (
	// ErrDistanceToleranceUnimplemented halts dispatch when a nonzero
	// waypoint_distance_tolerance is configured. Distance-based arrival was
	// never finished upstream; the contract is to fail loudly here rather
	// than quietly fall back to waiting for server completion.
	ErrDistanceToleranceUnimplemented = errors.New("waypoint: distance-tolerance arrival is not implemented")
)
