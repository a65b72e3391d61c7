package waypoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldrover/waypointd/internal/log"
	"github.com/fieldrover/waypointd/pkg/geometry"
	"github.com/fieldrover/waypointd/pkg/nav"
)

// Phase is the dispatch loop state.
type Phase int

const (
	// PhaseIdle: not armed, or armed with an empty queue.
	PhaseIdle Phase = iota
	// PhaseDispatching: one goal in flight, waiting for its terminal state.
	PhaseDispatching
	// PhaseSettling: goal finished, pausing before the next waypoint.
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDispatching:
		return "dispatching"
	case PhaseSettling:
		return "settling"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Run drives the dispatch loop until the context is cancelled or dispatch
// fails fatally (the unimplemented distance-tolerance branch). Exactly one
// Run per Coordinator.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := c.runOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// runOnce is a single iteration of the loop: poll while unarmed, disarm on
// an empty queue, otherwise drain.
func (c *Coordinator) runOnce(ctx context.Context) error {
	if !c.Armed() {
		return sleepCtx(ctx, c.opts.PollInterval)
	}

	n := c.Len()
	if n == 0 {
		log.Warn("no more waypoints to follow")
		c.disarm()
		return nil
	}
	log.Info("following path", "waypoints", n)

	// We have waypoints, let's follow them. A concurrent reset may truncate
	// the queue between iterations; popFront reporting empty ends the drain.
	for {
		wp, ok := c.popFront()
		if !ok {
			break
		}
		if err := c.dispatch(ctx, wp); err != nil {
			c.setPhase(PhaseIdle)
			return err
		}
	}

	c.setPhase(PhaseIdle)
	return nil
}

// dispatch sends one goal and blocks until its episode ends, then settles
// and republishes the remaining queue.
func (c *Coordinator) dispatch(ctx context.Context, wp geometry.PoseStamped) error {
	c.setPhase(PhaseDispatching)

	goal := nav.Goal{
		ID:          uuid.NewString(),
		TargetFrame: c.opts.GoalFrameID,
		Position:    wp.Pose.Position,
		Orientation: wp.Pose.Orientation,
	}

	log.Info("executing navigation goal",
		"goal", goal.ID,
		"x", goal.Position.X,
		"y", goal.Position.Y,
	)
	handle, err := c.nav.SendGoal(ctx, goal)
	if err != nil {
		// Transport failure ends the episode; failure policy belongs to the
		// navigation server, not this loop.
		log.Error("goal dispatch failed", "goal", goal.ID, "error", err)
	}

	if c.opts.DistanceTolerance > 0 {
		return ErrDistanceToleranceUnimplemented
	}

	if err == nil {
		out, werr := handle.Wait(ctx)
		switch {
		case werr == nil:
			// Success, failure, and preemption all collapse to "done".
			log.Info("navigation goal finished", "goal", goal.ID, "state", out.State)
			c.recordOutcome(ctx, goal.ID, string(out.State))
		case errors.Is(werr, context.Canceled) || errors.Is(werr, context.DeadlineExceeded):
			return werr
		default:
			log.Warn("goal wait ended without a terminal state", "goal", goal.ID, "error", werr)
			c.recordOutcome(ctx, goal.ID, "lost")
		}
	} else {
		c.recordOutcome(ctx, goal.ID, "send_failed")
	}

	c.setPhase(PhaseSettling)
	if c.opts.WaitDuration > 0 {
		log.Info("settling before next waypoint", "seconds", c.opts.WaitDuration.Seconds())
	}
	if err := sleepCtx(ctx, c.opts.WaitDuration); err != nil {
		return err
	}

	c.publishSnapshot()
	return nil
}

func (c *Coordinator) recordOutcome(ctx context.Context, goalID, state string) {
	if j := c.journalRef(); j != nil {
		if err := j.RecordOutcome(ctx, goalID, state); err != nil {
			log.Error("journal outcome failed", "error", err)
		}
	}
}

// sleepCtx blocks for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
