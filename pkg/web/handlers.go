package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/fieldrover/waypointd/pkg/geometry"
	"github.com/fieldrover/waypointd/pkg/hub"
)

// CommandResult is the response shape of the control commands.
type CommandResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// handleAddWaypoint ingests the next waypoint. The body shape follows the
// configured ingestion mode; there is no sanity validation beyond decoding,
// upstream input is passed through as-is.
func (s *Server) handleAddWaypoint(c *fiber.Ctx) error {
	if s.posesMode {
		var msg geometry.PoseWithCovarianceStamped
		if err := c.BodyParser(&msg); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		s.coord.AddPose(c.UserContext(), msg)
	} else {
		var msg geometry.PointStamped
		if err := c.BodyParser(&msg); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		s.coord.AddPoint(c.UserContext(), msg)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"waypoints": s.coord.Len(),
	})
}

// handleListWaypoints returns the current visualization snapshot.
func (s *Server) handleListWaypoints(c *fiber.Ctx) error {
	return c.JSON(s.coord.Snapshot())
}

// handlePathReady arms the dispatch loop.
func (s *Server) handlePathReady(c *fiber.Ctx) error {
	ok, msg := s.coord.Arm()
	return c.JSON(CommandResult{OK: ok, Message: msg})
}

// handlePathReset cancels navigation and clears the queue.
func (s *Server) handlePathReset(c *fiber.Ctx) error {
	ok, msg := s.coord.Reset()
	return c.JSON(CommandResult{OK: ok, Message: msg})
}

// handleStatus reports the coordinator state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"armed":     s.coord.Armed(),
		"phase":     s.coord.CurrentPhase().String(),
		"waypoints": s.coord.Len(),
	})
}

// handleWaypointsWS streams queue snapshots to a visualization client.
func (s *Server) handleWaypointsWS(c *websocket.Conn) {
	client := hub.NewClient(s.vizHub, c)
	client.Run() // Blocks until the connection closes
}
