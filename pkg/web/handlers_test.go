package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldrover/waypointd/pkg/geometry"
	"github.com/fieldrover/waypointd/pkg/nav"
	"github.com/fieldrover/waypointd/pkg/waypoint"
)

func newTestServer(t *testing.T, posesMode bool) (*Server, *nav.Mock) {
	t.Helper()
	m := nav.NewMock()
	coord := waypoint.New(waypoint.Options{
		GoalFrameID:  "map",
		PollInterval: time.Millisecond,
	}, m)
	s := NewServer(":0", coord, posesMode)
	coord.SetPublisher(s)
	return s, m
}

func doJSON(t *testing.T, s *Server, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAddWaypointPointMode(t *testing.T) {
	s, _ := newTestServer(t, false)

	resp := doJSON(t, s, "POST", "/api/waypoints",
		`{"header": {"frame_id": "map"}, "point": {"x": 1, "y": 2, "z": 0}}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body struct {
		Waypoints int `json:"waypoints"`
	}
	decode(t, resp, &body)
	assert.Equal(t, 1, body.Waypoints)

	resp = doJSON(t, s, "GET", "/api/waypoints", "")
	var snap geometry.PoseArray
	decode(t, resp, &snap)
	require.Len(t, snap.Poses, 1)
	assert.Equal(t, "map", snap.FrameID)
	assert.Equal(t, 1.0, snap.Poses[0].Position.X)
	assert.Equal(t, geometry.Identity(), snap.Poses[0].Orientation)
}

func TestAddWaypointPoseMode(t *testing.T) {
	s, _ := newTestServer(t, true)

	resp := doJSON(t, s, "POST", "/api/waypoints", `{
		"header": {"frame_id": "map"},
		"pose": {
			"position": {"x": 4, "y": -2, "z": 0},
			"orientation": {"x": 0, "y": 0, "z": 0.7071, "w": 0.7071}
		}
	}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp = doJSON(t, s, "GET", "/api/waypoints", "")
	var snap geometry.PoseArray
	decode(t, resp, &snap)
	require.Len(t, snap.Poses, 1)
	assert.Equal(t, 0.7071, snap.Poses[0].Orientation.Z)
}

func TestAddWaypointRejectsMalformedBody(t *testing.T) {
	s, _ := newTestServer(t, false)

	resp := doJSON(t, s, "POST", "/api/waypoints", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPathReadyArms(t *testing.T) {
	s, _ := newTestServer(t, false)

	resp := doJSON(t, s, "POST", "/api/path/ready", "")
	var result CommandResult
	decode(t, resp, &result)
	assert.True(t, result.OK)

	resp = doJSON(t, s, "GET", "/api/status", "")
	var status struct {
		Armed     bool   `json:"armed"`
		Phase     string `json:"phase"`
		Waypoints int    `json:"waypoints"`
	}
	decode(t, resp, &status)
	assert.True(t, status.Armed)
	assert.Equal(t, "idle", status.Phase)
	assert.Zero(t, status.Waypoints)
}

func TestPathResetCancelsAndClears(t *testing.T) {
	s, m := newTestServer(t, false)

	doJSON(t, s, "POST", "/api/waypoints",
		`{"header": {"frame_id": "map"}, "point": {"x": 1, "y": 1, "z": 0}}`).Body.Close()

	resp := doJSON(t, s, "POST", "/api/path/reset", "")
	var result CommandResult
	decode(t, resp, &result)
	assert.True(t, result.OK)
	assert.Equal(t, 1, m.CancelCount())

	resp = doJSON(t, s, "GET", "/api/waypoints", "")
	var snap geometry.PoseArray
	decode(t, resp, &snap)
	assert.Empty(t, snap.Poses)
}

func TestCommandsAreIdempotent(t *testing.T) {
	s, m := newTestServer(t, false)

	for i := 0; i < 3; i++ {
		resp := doJSON(t, s, "POST", "/api/path/ready", "")
		var result CommandResult
		decode(t, resp, &result)
		assert.True(t, result.OK)
	}
	for i := 0; i < 2; i++ {
		resp := doJSON(t, s, "POST", "/api/path/reset", "")
		var result CommandResult
		decode(t, resp, &result)
		assert.True(t, result.OK)
	}
	assert.Equal(t, 2, m.CancelCount())
}
