// Package waypoint implements the waypoint queue lifecycle and dispatch
// state machine.
//
// A Coordinator owns a FIFO queue of goal poses and an armed flag. Ingestion
// handlers append to the queue, the control surface arms and resets it, and
// a single dispatch loop (Run) drains it one goal at a time through a
// nav.Navigator, waiting for each goal's terminal state before advancing.
package waypoint

import (
	"context"
	"sync"
	"time"

	"github.com/fieldrover/waypointd/internal/log"
	"github.com/fieldrover/waypointd/pkg/geometry"
	"github.com/fieldrover/waypointd/pkg/nav"
)

// Publisher receives visualization snapshots whenever the queue changes.
type Publisher interface {
	PublishWaypoints(geometry.PoseArray)
}

// Journal records waypoint activity for later inspection. All calls are
// best-effort; the coordinator logs and continues on error.
type Journal interface {
	RecordWaypoint(ctx context.Context, wp geometry.PoseStamped, source string) error
	RecordOutcome(ctx context.Context, goalID, state string) error
}

// Options configures a Coordinator. Loaded once; immutable thereafter.
type Options struct {
	// GoalFrameID is the coordinate frame attached to outgoing goals and
	// visualization snapshots.
	GoalFrameID string

	// WaitDuration is the settle pause after each goal completes.
	WaitDuration time.Duration

	// DistanceTolerance in meters. Nonzero selects the unimplemented
	// distance-based arrival policy; dispatch halts with
	// ErrDistanceToleranceUnimplemented.
	DistanceTolerance float64

	// PollInterval is the idle poll cadence while unarmed. Defaults to one
	// second; tests shorten it.
	PollInterval time.Duration
}

// Coordinator is the waypoint-following state machine.
type Coordinator struct {
	opts    Options
	nav     nav.Navigator
	pub     Publisher
	journal Journal

	mu    sync.Mutex
	queue []geometry.PoseStamped
	armed bool
	phase Phase
}

// New creates a Coordinator. The publisher and journal are optional and
// attached via setters before Run is started.
func New(opts Options, navigator nav.Navigator) *Coordinator {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Coordinator{
		opts: opts,
		nav:  navigator,
	}
}

// SetPublisher attaches the visualization snapshot consumer.
func (c *Coordinator) SetPublisher(p Publisher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pub = p
}

// SetJournal attaches the activity journal.
func (c *Coordinator) SetJournal(j Journal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.journal = j
}

// AddPose accepts a full pose as the next waypoint to follow.
func (c *Coordinator) AddPose(ctx context.Context, p geometry.PoseWithCovarianceStamped) {
	c.add(ctx, geometry.PoseStamped{Header: p.Header, Pose: p.Pose}, "pose")
}

// AddPoint accepts a bare point as the next waypoint to follow. It is
// converted to a pose using the identity orientation.
func (c *Coordinator) AddPoint(ctx context.Context, p geometry.PointStamped) {
	c.add(ctx, geometry.PoseFromPoint(p), "point")
}

func (c *Coordinator) add(ctx context.Context, wp geometry.PoseStamped, source string) {
	c.mu.Lock()
	c.queue = append(c.queue, wp)
	n := len(c.queue)
	c.mu.Unlock()

	c.publishSnapshot()
	log.Info("added new waypoint",
		"x", wp.Pose.Position.X,
		"y", wp.Pose.Position.Y,
		"waypoints", n,
	)

	if j := c.journalRef(); j != nil {
		if err := j.RecordWaypoint(ctx, wp, source); err != nil {
			log.Error("journal waypoint failed", "error", err)
		}
	}
}

// Arm authorizes the dispatch loop to drain the queue. Idempotent; always
// succeeds, even with an empty queue (the loop disarms and warns in that
// case).
func (c *Coordinator) Arm() (bool, string) {
	c.mu.Lock()
	c.armed = true
	c.mu.Unlock()

	log.Info("path marked ready")
	return true, ""
}

// Reset cancels all navigation goals and clears the queue. Fire and forget
// on the cancel; always succeeds. The armed flag is deliberately left set,
// matching upstream behavior: new waypoints arriving after a reset are
// followed without re-arming.
func (c *Coordinator) Reset() (bool, string) {
	log.Warn("issuing cancel to navigation server")
	c.nav.CancelAll()
	log.Warn("navigation goals cancelled")

	c.mu.Lock()
	cleared := len(c.queue) > 0
	if cleared {
		c.queue = nil
	}
	c.mu.Unlock()

	if cleared {
		c.publishSnapshot()
	}
	return true, ""
}

// Snapshot returns the visualization projection of the current queue.
func (c *Coordinator) Snapshot() geometry.PoseArray {
	c.mu.Lock()
	queue := make([]geometry.PoseStamped, len(c.queue))
	copy(queue, c.queue)
	c.mu.Unlock()

	return BuildPoseArray(c.opts.GoalFrameID, queue)
}

// Len returns the current queue length.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Armed reports whether the dispatch loop is authorized to drain the queue.
func (c *Coordinator) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// CurrentPhase returns the dispatch loop phase.
func (c *Coordinator) CurrentPhase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Coordinator) publishSnapshot() {
	c.mu.Lock()
	pub := c.pub
	c.mu.Unlock()
	if pub != nil {
		pub.PublishWaypoints(c.Snapshot())
	}
}

func (c *Coordinator) journalRef() Journal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.journal
}

// popFront removes and returns the next waypoint. A false return means the
// queue is empty, which the loop treats as exhaustion, not an error: a
// concurrent reset may empty the queue under an in-flight dispatch.
func (c *Coordinator) popFront() (geometry.PoseStamped, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return geometry.PoseStamped{}, false
	}
	wp := c.queue[0]
	c.queue = c.queue[1:]
	return wp, true
}

func (c *Coordinator) disarm() {
	c.mu.Lock()
	c.armed = false
	c.mu.Unlock()
}

func (c *Coordinator) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}
