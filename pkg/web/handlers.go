package web

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/voiceagi/go-voiceagi/pkg/agent"
	"github.com/voiceagi/go-voiceagi/pkg/hub"
)

// routeRequest is the body of POST /api/route.
type routeRequest struct {
	Utterance string `json:"utterance"`
	SessionID string `json:"session_id,omitempty"`
}

// inboundMessage is what a /ws/session client sends.
type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// outboundMessage wraps everything the session socket sends back.
type outboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Response  *agent.Response `json:"response,omitempty"`
}

func (s *Server) handleListTools(c *fiber.Ctx) error {
	tools := s.agent.Catalog().Tools()
	return c.JSON(fiber.Map{
		"tools": tools,
		"count": len(tools),
	})
}

func (s *Server) handleRoute(c *fiber.Ctx) error {
	var req routeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.Utterance == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "utterance is required"})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.agent.CreateSession()
		s.events.Publish(hub.Event{Type: hub.EventSessionStarted, SessionID: sessionID})
	}

	resp, err := s.agent.HandleUtterance(c.UserContext(), sessionID, req.Utterance)
	if err != nil {
		if errors.Is(err, agent.ErrUnknownSession) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown session"})
		}
		s.logger.Error("route failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "routing failed"})
	}

	s.publishRouted(req.Utterance, resp)
	return c.JSON(resp)
}

func (s *Server) handleGetContext(c *fiber.Ctx) error {
	snap, err := s.agent.Snapshot(c.Params("session"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown session"})
	}
	return c.JSON(snap)
}

func (s *Server) handleClearContext(c *fiber.Ctx) error {
	if err := s.agent.ClearContext(c.Params("session")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown session"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	stats, err := s.agent.Stats(c.Params("session"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown session"})
	}
	return c.JSON(stats)
}

// handleSessionWS carries one interactive conversation. The read loop
// is the serializer: one utterance is processed end to end before the
// next is read.
func (s *Server) handleSessionWS(conn *websocket.Conn) {
	sessionID := s.agent.CreateSession()
	s.events.Publish(hub.Event{Type: hub.EventSessionStarted, SessionID: sessionID})

	defer func() {
		s.agent.EndSession(sessionID)
		s.events.Publish(hub.Event{Type: hub.EventSessionEnded, SessionID: sessionID})
		conn.Close()
	}()

	if err := conn.WriteJSON(outboundMessage{Type: "session", SessionID: sessionID}); err != nil {
		return
	}

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type != "utterance" {
			conn.WriteJSON(outboundMessage{Type: "error", Error: "expected an utterance message"})
			continue
		}

		resp, err := s.agent.HandleUtterance(context.Background(), sessionID, msg.Text)
		if err != nil {
			conn.WriteJSON(outboundMessage{Type: "error", Error: err.Error()})
			continue
		}

		s.publishRouted(msg.Text, resp)
		if err := conn.WriteJSON(outboundMessage{Type: "response", SessionID: sessionID, Response: resp}); err != nil {
			return
		}
	}
}

// handleEventsWS attaches an observer to the event hub.
func (s *Server) handleEventsWS(conn *websocket.Conn) {
	hub.NewClient(s.events, conn).Run()
}

func (s *Server) publishRouted(utterance string, resp *agent.Response) {
	s.events.Publish(hub.Event{
		Type:      hub.EventUtteranceRouted,
		SessionID: resp.SessionID,
		Utterance: utterance,
		Tool:      resp.Tool,
		MatchType: resp.MatchType,
		Reply:     resp.Reply,
	})
}
