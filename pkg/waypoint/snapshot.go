package waypoint

import "github.com/fieldrover/waypointd/pkg/geometry"

// BuildPoseArray projects a waypoint queue into the visualization snapshot
// shape: the bare poses in queue order, frame id attached once at the array
// level. Pure function; callers pass a stable copy of the queue.
func BuildPoseArray(frameID string, queue []geometry.PoseStamped) geometry.PoseArray {
	poses := make([]geometry.Pose, len(queue))
	for i, wp := range queue {
		poses[i] = wp.Pose
	}
	return geometry.PoseArray{
		FrameID: frameID,
		Poses:   poses,
	}
}
