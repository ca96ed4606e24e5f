// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern. It fans
// routing events out to any number of dashboard observers.
package hub

import "time"

// EventType labels what happened on a session.
type EventType string

const (
	// EventSessionStarted fires when a conversation begins.
	EventSessionStarted EventType = "session_started"
	// EventSessionEnded fires when a conversation is discarded.
	EventSessionEnded EventType = "session_ended"
	// EventUtteranceRouted fires after every routed utterance.
	EventUtteranceRouted EventType = "utterance_routed"
)

// Event is one observable routing occurrence.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Utterance string    `json:"utterance,omitempty"`
	Tool      string    `json:"tool,omitempty"`
	MatchType string    `json:"match_type,omitempty"`
	Reply     string    `json:"reply,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
