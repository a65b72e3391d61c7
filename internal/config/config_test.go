package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "map", cfg.GoalFrameID)
	assert.Equal(t, "odom", cfg.OdomFrameID)
	assert.Equal(t, "base_footprint", cfg.BaseFrameID)
	assert.Zero(t, cfg.WaitDuration)
	assert.Zero(t, cfg.DistanceTolerance)
	assert.True(t, cfg.WaypointsArePoses)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"goal_frame_id": "world",
		"wait_duration": 2.5,
		"waypoints_are_poses": false
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "world", cfg.GoalFrameID)
	assert.Equal(t, 2.5, cfg.WaitDuration)
	assert.False(t, cfg.WaypointsArePoses)

	// Unspecified fields keep their defaults.
	assert.Equal(t, "odom", cfg.OdomFrameID)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
}

func TestLoadClampsNegativeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"wait_duration": -1.0,
		"waypoint_distance_tolerance": -0.5
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.WaitDuration)
	assert.Zero(t, cfg.DistanceTolerance)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
