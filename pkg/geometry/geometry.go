// Package geometry defines the pose types exchanged between the waypoint
// coordinator, the navigation server, and visualization consumers.
//
// Conventions:
//   - Positions are in meters in the frame named by the accompanying header.
//   - Orientations are unit quaternions; Identity() is "facing forward".
package geometry

import "time"

// Point is a position in 3D space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is an orientation in 3D space.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Identity returns the identity quaternion (no rotation).
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// Header tags a message with its coordinate frame and timestamp.
type Header struct {
	FrameID string    `json:"frame_id"`
	Stamp   time.Time `json:"stamp"`
}

// Pose is a position plus orientation.
type Pose struct {
	Position    Point      `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// PoseStamped is a pose tagged with a frame and timestamp.
type PoseStamped struct {
	Header Header `json:"header"`
	Pose   Pose   `json:"pose"`
}

// PointStamped is a bare point tagged with a frame and timestamp.
type PointStamped struct {
	Header Header `json:"header"`
	Point  Point  `json:"point"`
}

// PoseWithCovarianceStamped is the full ingestion payload shape. The
// covariance is carried through untouched; the coordinator never reads it.
type PoseWithCovarianceStamped struct {
	Header     Header      `json:"header"`
	Pose       Pose        `json:"pose"`
	Covariance [36]float64 `json:"covariance"`
}

// PoseArray is an ordered list of poses sharing one coordinate frame.
// It is the visualization snapshot shape.
type PoseArray struct {
	FrameID string `json:"frame_id"`
	Poses   []Pose `json:"poses"`
}

// PoseFromPoint converts a bare point into a stamped pose using the
// identity orientation. The header is carried over as-is.
func PoseFromPoint(p PointStamped) PoseStamped {
	return PoseStamped{
		Header: p.Header,
		Pose: Pose{
			Position:    p.Point,
			Orientation: Identity(),
		},
	}
}
