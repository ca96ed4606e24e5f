// Package agent ties the routing core to an executable tool set: it
// owns the catalog, keeps one conversation context per session, and
// turns utterances into spoken replies.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/voiceagi/go-voiceagi/pkg/catalog"
	"github.com/voiceagi/go-voiceagi/pkg/extract"
	"github.com/voiceagi/go-voiceagi/pkg/router"
	"github.com/voiceagi/go-voiceagi/pkg/session"
)

// ErrUnknownSession is returned for operations on a session ID that
// was never created.
var ErrUnknownSession = errors.New("agent: unknown session")

// Response is what the agent says and did for one utterance.
type Response struct {
	SessionID string         `json:"session_id"`
	Reply     string         `json:"reply"`
	Tool      string         `json:"tool,omitempty"`
	MatchType string         `json:"match_type"`
	Score     float64        `json:"score"`
	Ambiguous bool           `json:"ambiguous,omitempty"`
	Values    map[string]any `json:"values,omitempty"`
	Missing   []string       `json:"missing,omitempty"`
}

// sessionState pairs a conversation context with the lock that
// serializes its utterances: one in flight per session, ever.
type sessionState struct {
	mu   sync.Mutex
	sess *session.Context
}

// App routes utterances to tools and maintains per-session state.
type App struct {
	cat    *catalog.Catalog
	router *router.Router
	window int
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// New creates an agent app.
func New(opts ...Option) (*App, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	cat := cfg.Catalog
	if cat == nil {
		cat = DefaultCatalog()
	}

	rt := cfg.Router
	if rt == nil {
		r, err := router.New()
		if err != nil {
			return nil, err
		}
		rt = r
	}

	return &App{
		cat:      cat,
		router:   rt,
		window:   cfg.Window,
		logger:   cfg.Logger.With("component", "agent"),
		sessions: make(map[string]*sessionState),
	}, nil
}

// Catalog exposes the tool set, e.g. for the web layer's tool listing.
func (a *App) Catalog() *catalog.Catalog {
	return a.cat
}

// CreateSession starts a fresh conversation and returns its ID.
func (a *App) CreateSession() string {
	sess := session.New(a.window)

	a.mu.Lock()
	a.sessions[sess.ID()] = &sessionState{sess: sess}
	a.mu.Unlock()

	a.logger.Info("session created", "session_id", sess.ID())
	return sess.ID()
}

// EndSession discards a conversation entirely.
func (a *App) EndSession(id string) {
	a.mu.Lock()
	delete(a.sessions, id)
	a.mu.Unlock()
}

func (a *App) state(id string) (*sessionState, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	st, ok := a.sessions[id]
	return st, ok
}

// HandleUtterance processes one utterance end to end: route, invoke
// the selected handler, record both turns. Utterances within a session
// are serialized; sessions run independently.
func (a *App) HandleUtterance(ctx context.Context, sessionID, utterance string) (*Response, error) {
	st, ok := a.state(sessionID)
	if !ok {
		return nil, ErrUnknownSession
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	result, err := a.router.Route(ctx, utterance, a.cat, st.sess)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		SessionID: sessionID,
		Tool:      result.Match.ToolName,
		MatchType: string(result.Match.Type),
		Score:     result.Match.Score,
		Ambiguous: result.Match.Ambiguous,
		Values:    result.Extraction.Values,
		Missing:   result.Extraction.Missing,
	}

	switch {
	case !result.Matched():
		resp.Reply = "Sorry, I didn't understand that."
	case !result.Extraction.Complete():
		resp.Reply = fmt.Sprintf("I need a bit more: what should I use for %s?",
			strings.Join(result.Extraction.Missing, " and "))
	default:
		reply, err := result.Match.Tool.Handler(result.Extraction.Values)
		if err != nil {
			a.logger.Error("tool handler failed",
				"tool", result.Match.ToolName,
				"error", err,
			)
			reply = fmt.Sprintf("Sorry, %s failed. Please try again.", result.Match.ToolName)
		} else {
			a.recordFacts(st.sess, result)
		}
		resp.Reply = reply
	}

	st.sess.AppendTurn(session.Turn{
		Role:        session.RoleUser,
		Text:        utterance,
		ToolInvoked: resp.Tool,
	})
	st.sess.AppendTurn(session.Turn{
		Role: session.RoleSystem,
		Text: resp.Reply,
	})

	return resp, nil
}

// recordFacts persists parameter values that later utterances should
// be able to lean on, such as the user's name.
func (a *App) recordFacts(sess *session.Context, result *router.Result) {
	if result.Match.ToolName != "remember_name" {
		return
	}
	if result.Extraction.Sources["name"] == extract.SourceContext {
		// Already stored; nothing new was said.
		return
	}
	if name, ok := result.Extraction.Values["name"].(string); ok && name != "" {
		sess.SetFact("name", name)
	}
}

// Snapshot returns a copy of a session's conversation context.
func (a *App) Snapshot(sessionID string) (session.Snapshot, error) {
	st, ok := a.state(sessionID)
	if !ok {
		return session.Snapshot{}, ErrUnknownSession
	}
	return st.sess.Snapshot(), nil
}

// ClearContext forgets a session's conversation turns.
func (a *App) ClearContext(sessionID string) error {
	st, ok := a.state(sessionID)
	if !ok {
		return ErrUnknownSession
	}
	st.sess.Clear()
	return nil
}

// Stats reports conversation statistics for a session.
func (a *App) Stats(sessionID string) (session.Stats, error) {
	st, ok := a.state(sessionID)
	if !ok {
		return session.Stats{}, ErrUnknownSession
	}
	return st.sess.Stats(), nil
}

// SessionCount reports how many sessions are live.
func (a *App) SessionCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.sessions)
}
