// Package session holds short-term conversational state for one voice
// session: a sliding window of turns and a small map of remembered user
// facts ("name" -> "Marc").
//
// A Context is owned by exactly one session. The session's request
// handler is the only writer; the internal lock exists so snapshots can
// be taken while a request is in flight, not to support concurrent
// mutation.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultWindow is the number of turns kept when none is configured.
const DefaultWindow = 10

// Role identifies who produced a turn.
type Role string

// Turn roles.
const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

// Turn is one utterance or response in the conversation.
// Immutable once appended.
type Turn struct {
	Role        Role      `json:"role"`
	Text        string    `json:"text"`
	ToolInvoked string    `json:"tool_invoked,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Snapshot is a read-only copy of the context, safe to hand to the
// parameter extractor without exposing live state.
type Snapshot struct {
	SessionID string            `json:"session_id"`
	Turns     []Turn            `json:"turns"`
	Facts     map[string]string `json:"facts"`
}

// Fact returns a user fact from the snapshot.
func (s Snapshot) Fact(key string) (string, bool) {
	v, ok := s.Facts[key]
	return v, ok
}

// Stats summarizes the conversation state.
type Stats struct {
	SessionID   string        `json:"session_id"`
	Turns       int           `json:"turns"`
	UserWords   int           `json:"user_words"`
	SystemWords int           `json:"system_words"`
	Duration    time.Duration `json:"duration"`
	FactKeys    []string      `json:"fact_keys"`
}

// Context is the bounded conversational store for one session.
type Context struct {
	id      string
	window  int
	started time.Time

	mu    sync.RWMutex
	turns []Turn
	facts map[string]string
}

// New creates a context with the given turn window.
// Non-positive windows fall back to DefaultWindow.
func New(window int) *Context {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Context{
		id:      fmt.Sprintf("voice_session_%s", uuid.NewString()),
		window:  window,
		started: time.Now(),
		facts:   make(map[string]string),
	}
}

// ID returns the session identifier.
func (c *Context) ID() string {
	return c.id
}

// Window returns the configured turn window.
func (c *Context) Window() int {
	return c.window
}

// AppendTurn adds a turn at the end, evicting the oldest once the
// window is exceeded. A zero timestamp is stamped with the current time.
func (c *Context) AppendTurn(t Turn) {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, t)
	if len(c.turns) > c.window {
		c.turns = c.turns[len(c.turns)-c.window:]
	}
}

// SetFact stores a user fact, overwriting any existing value.
func (c *Context) SetFact(key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	c.mu.Lock()
	c.facts[key] = value
	c.mu.Unlock()
}

// Fact retrieves a user fact.
func (c *Context) Fact(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.facts[strings.TrimSpace(key)]
	return v, ok
}

// Len returns the current number of turns.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Snapshot returns a deep copy of the current state.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	turns := make([]Turn, len(c.turns))
	copy(turns, c.turns)

	facts := make(map[string]string, len(c.facts))
	for k, v := range c.facts {
		facts[k] = v
	}

	return Snapshot{SessionID: c.id, Turns: turns, Facts: facts}
}

// Transcript renders the turn history as plain text, one line per turn,
// for use as LLM prompt context.
func (c *Context) Transcript() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.turns) == 0 {
		return ""
	}

	var b strings.Builder
	for _, t := range c.turns {
		switch t.Role {
		case RoleUser:
			b.WriteString("User: ")
		default:
			b.WriteString("Assistant: ")
		}
		b.WriteString(t.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Clear drops the turn history. User facts survive: forgetting the
// conversation is not forgetting the user.
func (c *Context) Clear() {
	c.mu.Lock()
	c.turns = nil
	c.mu.Unlock()
}

// Stats returns conversation statistics.
func (c *Context) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var userWords, systemWords int
	for _, t := range c.turns {
		n := len(strings.Fields(t.Text))
		if t.Role == RoleUser {
			userWords += n
		} else {
			systemWords += n
		}
	}

	keys := make([]string, 0, len(c.facts))
	for k := range c.facts {
		keys = append(keys, k)
	}

	return Stats{
		SessionID:   c.id,
		Turns:       len(c.turns),
		UserWords:   userWords,
		SystemWords: systemWords,
		Duration:    time.Since(c.started),
		FactKeys:    keys,
	}
}
