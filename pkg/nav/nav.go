// Package nav provides the client abstraction for the external navigation
// action server.
//
// The coordinator depends only on the Navigator interface. The server is
// trusted to eventually report a terminal state for every goal; success,
// failure, and preemption are all terminal and the coordinator treats them
// identically. Failure policy (retries, recovery behaviors) lives on the
// server side, not here.
package nav

import (
	"context"

	"github.com/fieldrover/waypointd/pkg/geometry"
)

// State is the terminal state of a goal episode as reported by the server.
type State string

const (
	StateSucceeded State = "succeeded"
	StateAborted   State = "aborted"
	StatePreempted State = "preempted"
)

// Terminal reports whether the state ends a goal episode.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateAborted, StatePreempted:
		return true
	}
	return false
}

// Goal is a single navigation target.
type Goal struct {
	// ID identifies the goal episode. Assigned by SendGoal if empty.
	ID string `json:"id"`

	// TargetFrame is the coordinate frame of the target pose.
	TargetFrame string `json:"target_frame"`

	Position    geometry.Point      `json:"position"`
	Orientation geometry.Quaternion `json:"orientation"`
}

// Outcome is the terminal result of a goal episode.
type Outcome struct {
	GoalID string `json:"goal_id"`
	State  State  `json:"state"`
}

// Handle tracks one in-flight goal.
type Handle interface {
	// Wait blocks until the server reports a terminal state for the goal,
	// or the context is cancelled. There is deliberately no timeout: a hung
	// server hangs the caller.
	Wait(ctx context.Context) (Outcome, error)
}

// Navigator is the navigation action server client.
type Navigator interface {
	// SendGoal dispatches a goal without waiting for it to complete.
	SendGoal(ctx context.Context, goal Goal) (Handle, error)

	// CancelAll asks the server to abandon every active goal. Fire and
	// forget: no acknowledgement is awaited.
	CancelAll()
}
