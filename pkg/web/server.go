// Package web exposes the routing agent over HTTP and websockets.
//
// REST endpoints cover one-shot routing and session inspection; the
// /ws/session endpoint carries an interactive conversation, and
// /ws/events streams routing events to observers.
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/voiceagi/go-voiceagi/pkg/agent"
	"github.com/voiceagi/go-voiceagi/pkg/hub"
)

// Server is the HTTP/websocket front end for the agent.
type Server struct {
	app    *fiber.App
	agent  *agent.App
	events *hub.Hub
	port   string
	logger *slog.Logger
}

// NewServer creates a web server around an agent app.
func NewServer(a *agent.App, port string) *Server {
	s := &Server{
		agent:  a,
		events: hub.New("events"),
		port:   port,
		logger: slog.Default().With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "voiceagi",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/tools", s.handleListTools)
	api.Post("/route", s.handleRoute)
	api.Get("/context/:session", s.handleGetContext)
	api.Delete("/context/:session", s.handleClearContext)
	api.Get("/stats/:session", s.handleStats)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/session", websocket.New(s.handleSessionWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Events exposes the event hub, e.g. for tests and embedding callers.
func (s *Server) Events() *hub.Hub {
	return s.events
}

// Start runs the event hub and serves until Shutdown. It blocks.
func (s *Server) Start() error {
	go s.events.Run()
	s.logger.Info("listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
