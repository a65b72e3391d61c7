// Package config provides configuration loading for waypointd.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fieldrover/waypointd/internal/log"
)

// Default configuration values.
const (
	DefaultListenAddr   = ":8400"
	DefaultNavServerURL = "http://127.0.0.1:8500"
	DefaultGoalFrameID  = "map"
	DefaultOdomFrameID  = "odom"
	DefaultBaseFrameID  = "base_footprint"
)

// Config holds all configuration for the waypoint coordinator.
// It is loaded once at startup and never re-read.
type Config struct {
	// GoalFrameID is the coordinate frame navigation goals are expressed in.
	GoalFrameID string `json:"goal_frame_id"`

	// OdomFrameID is the odometry frame. Only used by the (unimplemented)
	// distance-tolerance arrival policy.
	OdomFrameID string `json:"odom_frame_id"`

	// BaseFrameID is the robot base frame. Only used by the (unimplemented)
	// distance-tolerance arrival policy.
	BaseFrameID string `json:"base_frame_id"`

	// WaitDuration is the settle pause in seconds after each goal completes
	// before the next waypoint is dispatched.
	WaitDuration float64 `json:"wait_duration"`

	// DistanceTolerance in meters. Zero disables distance-based arrival and
	// the coordinator waits for the navigation server to report completion.
	// Nonzero selects the distance-based policy, which is not implemented
	// and halts dispatch with an error.
	DistanceTolerance float64 `json:"waypoint_distance_tolerance"`

	// WaypointsArePoses selects the ingestion payload shape: full poses with
	// covariance when true, bare points when false.
	WaypointsArePoses bool `json:"waypoints_are_poses"`

	// ListenAddr is the HTTP/WebSocket listen address.
	ListenAddr string `json:"listen_addr"`

	// NavServerURL is the base URL of the navigation action server.
	NavServerURL string `json:"nav_server_url"`

	// JournalPath is the SQLite journal file. Empty disables journaling.
	JournalPath string `json:"journal_path"`
}

// Default returns sensible defaults for waypointd configuration.
func Default() Config {
	return Config{
		GoalFrameID:       DefaultGoalFrameID,
		OdomFrameID:       DefaultOdomFrameID,
		BaseFrameID:       DefaultBaseFrameID,
		WaitDuration:      0,
		DistanceTolerance: 0,
		WaypointsArePoses: true,
		ListenAddr:        DefaultListenAddr,
		NavServerURL:      DefaultNavServerURL,
	}
}

// Load reads the JSON config from disk, merging over defaults.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	return cfg.clamped(), nil
}

// clamped normalizes out-of-range values. Negative durations and tolerances
// are clamped to zero with a warning rather than passed to wait primitives.
func (c Config) clamped() Config {
	if c.WaitDuration < 0 {
		log.Warn("negative wait_duration clamped to 0", "value", c.WaitDuration)
		c.WaitDuration = 0
	}
	if c.DistanceTolerance < 0 {
		log.Warn("negative waypoint_distance_tolerance clamped to 0", "value", c.DistanceTolerance)
		c.DistanceTolerance = 0
	}
	return c
}
