// Package web provides the HTTP and WebSocket surfaces of the coordinator:
// waypoint ingestion, the arm/reset control commands, and the latched
// visualization snapshot stream.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/fieldrover/waypointd/internal/log"
	"github.com/fieldrover/waypointd/pkg/geometry"
	"github.com/fieldrover/waypointd/pkg/hub"
	"github.com/fieldrover/waypointd/pkg/waypoint"
)

// Server exposes a waypoint.Coordinator over HTTP and WebSocket.
type Server struct {
	app   *fiber.App
	addr  string
	coord *waypoint.Coordinator

	// posesMode selects the ingestion payload shape: pose-with-covariance
	// when true, bare point when false. Fixed for the process lifetime.
	posesMode bool

	// vizHub broadcasts queue snapshots; latched, so late subscribers get
	// the last value.
	vizHub *hub.Hub
}

// NewServer creates the web server for the given coordinator.
func NewServer(addr string, coord *waypoint.Coordinator, posesMode bool) *Server {
	s := &Server{
		addr:      addr,
		coord:     coord,
		posesMode: posesMode,
		vizHub:    hub.New("waypoints"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "waypointd",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Post("/waypoints", s.handleAddWaypoint)
	api.Get("/waypoints", s.handleListWaypoints)
	api.Post("/path/ready", s.handlePathReady)
	api.Post("/path/reset", s.handlePathReset)
	api.Get("/status", s.handleStatus)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/waypoints", websocket.New(s.handleWaypointsWS))

	s.app = app
	return s
}

// Start runs the snapshot hub and listens on the configured address.
// Blocks until Shutdown.
func (s *Server) Start() error {
	go s.vizHub.Run()
	log.Info("web server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PublishWaypoints implements waypoint.Publisher by broadcasting the
// snapshot to all connected visualization clients.
func (s *Server) PublishWaypoints(pa geometry.PoseArray) {
	if err := s.vizHub.BroadcastJSON(pa); err != nil {
		log.Error("snapshot broadcast failed", "error", err)
	}
}

// App returns the underlying fiber app. Used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}
