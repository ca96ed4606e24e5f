// Package router is the single entry point for utterance routing: it
// matches an utterance against the tool catalog and, when a tool wins,
// fills that tool's parameter schema from the utterance and the
// session's conversation context.
//
// "No tool matched" is a result, not an error. The only errors Route
// returns are misuse (nil catalog); everything that can go wrong at
// runtime degrades to a lower-confidence result instead.
package router

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/voiceagi/go-voiceagi/pkg/catalog"
	"github.com/voiceagi/go-voiceagi/pkg/extract"
	"github.com/voiceagi/go-voiceagi/pkg/intent"
	"github.com/voiceagi/go-voiceagi/pkg/nlu"
	"github.com/voiceagi/go-voiceagi/pkg/session"
)

// ErrNilCatalog is returned when Route is called without a catalog.
var ErrNilCatalog = errors.New("router: catalog is nil")

// classifyTimeout bounds the advisory classification call.
const classifyTimeout = 2 * time.Second

// Result carries everything a caller needs to act on an utterance.
type Result struct {
	Utterance  string         `json:"utterance"`
	Match      intent.Result  `json:"match"`
	Extraction extract.Result `json:"extraction"`

	// Classification is the advisory label from the secondary
	// classifier, when one is configured. It never influences which
	// tool was selected.
	Classification *nlu.Classification `json:"classification,omitempty"`
}

// Matched reports whether a tool was selected.
func (r *Result) Matched() bool {
	return r.Match.Tool != nil
}

// Router wires the matcher and extractor behind a single call.
type Router struct {
	matcher    *intent.Matcher
	extractor  *extract.Extractor
	classifier nlu.Provider
	logger     *slog.Logger
}

// New creates a router.
func New(opts ...Option) (*Router, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	matcher := cfg.Matcher
	if matcher == nil {
		m, err := intent.NewMatcher()
		if err != nil {
			return nil, err
		}
		matcher = m
	}

	extractor := cfg.Extractor
	if extractor == nil {
		e, err := extract.NewExtractor()
		if err != nil {
			return nil, err
		}
		extractor = e
	}

	return &Router{
		matcher:    matcher,
		extractor:  extractor,
		classifier: cfg.Classifier,
		logger:     cfg.Logger.With("component", "router"),
	}, nil
}

// Route matches the utterance and extracts parameters for the winning
// tool. A nil session is treated as an empty conversation.
func (r *Router) Route(ctx context.Context, utterance string, cat *catalog.Catalog, sess *session.Context) (*Result, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}

	result := &Result{
		Utterance: utterance,
		Match:     r.matcher.Match(utterance, cat),
	}

	if r.classifier != nil {
		result.Classification = r.classify(ctx, utterance, cat)
	}

	if !result.Matched() {
		r.logger.Info("no tool matched", "utterance", utterance)
		result.Extraction = extract.Result{
			Values:  map[string]any{},
			Sources: map[string]extract.Source{},
		}
		return result, nil
	}

	var snap session.Snapshot
	if sess != nil {
		snap = sess.Snapshot()
	}
	result.Extraction = r.extractor.Extract(ctx, utterance, result.Match.Tool, snap)

	r.logger.Info("routed utterance",
		"tool", result.Match.ToolName,
		"match_type", result.Match.Type,
		"score", result.Match.Score,
		"ambiguous", result.Match.Ambiguous,
		"missing", result.Extraction.Missing,
	)

	return result, nil
}

// classify asks the secondary classifier for an advisory label. Any
// failure is logged and swallowed: the matcher's score is the only
// gate for tool selection.
func (r *Router) classify(ctx context.Context, utterance string, cat *catalog.Catalog) *nlu.Classification {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	tools := cat.Tools()
	candidates := make([]nlu.Candidate, 0, len(tools))
	for _, t := range tools {
		candidates = append(candidates, nlu.Candidate{Name: t.Name, Description: t.Description})
	}

	c, err := r.classifier.Classify(ctx, &nlu.ClassifyRequest{
		Utterance:  utterance,
		Candidates: candidates,
	})
	if err != nil {
		r.logger.Debug("advisory classification unavailable", "error", err)
		return nil
	}

	r.logger.Debug("advisory classification",
		"intent", c.Intent,
		"confidence", c.Confidence,
	)
	return c
}
