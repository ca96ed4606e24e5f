// Package extract fills a tool's parameter schema from a natural
// language utterance.
//
// Each parameter runs through an ordered chain of strategies and the
// first one to produce a value wins: pattern heuristics, the external
// NLU fallback, conversation facts, and finally the schema default.
// A strategy that fails or has no opinion never aborts extraction; a
// required parameter that survives the whole chain unfilled lands in
// Result.Missing and the caller decides what to do about it.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/voiceagi/go-voiceagi/pkg/catalog"
	"github.com/voiceagi/go-voiceagi/pkg/nlu"
	"github.com/voiceagi/go-voiceagi/pkg/session"
)

// Source records which strategy produced a parameter value.
type Source string

const (
	SourceHeuristic Source = "heuristic"
	SourceNLU       Source = "nlu"
	SourceContext   Source = "context"
	SourceDefault   Source = "default"
)

// Result maps parameter names to typed values. Every schema key ends up
// in Values or, for required parameters nothing could fill, in Missing.
type Result struct {
	Values  map[string]any    `json:"values"`
	Sources map[string]Source `json:"sources"`
	Missing []string          `json:"missing,omitempty"`
}

// Complete reports whether all required parameters were filled.
func (r Result) Complete() bool {
	return len(r.Missing) == 0
}

// Extractor resolves tool parameters from utterances.
type Extractor struct {
	nlu     nlu.Provider
	timeout time.Duration
	logger  *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(opts ...Option) (*Extractor, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Extractor{
		nlu:     cfg.NLU,
		timeout: cfg.NLUTimeout,
		logger:  cfg.Logger.With("component", "extract"),
	}, nil
}

// Extract resolves every parameter in the tool's schema. It never
// returns an error: external failures degrade to the next strategy and
// unfillable required parameters are reported in Result.Missing.
func (e *Extractor) Extract(ctx context.Context, utterance string, tool *catalog.ToolSpec, snap session.Snapshot) Result {
	result := Result{
		Values:  make(map[string]any),
		Sources: make(map[string]Source),
	}
	if tool == nil || len(tool.Parameters) == 0 {
		return result
	}

	lower := strings.ToLower(strings.TrimSpace(utterance))

	// Map iteration order is random; resolve in a stable order so
	// logs and NLU traffic are reproducible.
	names := make([]string, 0, len(tool.Parameters))
	for name := range tool.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := tool.Parameters[name]
		value, source, ok := e.resolve(ctx, utterance, lower, name, spec, snap)
		if ok {
			result.Values[name] = value
			result.Sources[name] = source
			continue
		}
		if spec.Required {
			e.logger.Warn("required parameter not extracted",
				"tool", tool.Name,
				"parameter", name,
			)
			result.Missing = append(result.Missing, name)
		}
	}

	return result
}

// resolve runs the strategy chain for a single parameter.
func (e *Extractor) resolve(ctx context.Context, utterance, lower, name string, spec catalog.ParamSpec, snap session.Snapshot) (any, Source, bool) {
	if raw, ok := heuristicValue(name, lower); ok {
		if v, err := coerce(raw, spec.Type); err == nil {
			return v, SourceHeuristic, true
		}
		e.logger.Debug("heuristic value failed type coercion",
			"parameter", name,
			"type", spec.Type,
			"value", raw,
		)
	}

	if e.nlu != nil {
		if raw, ok := e.askNLU(ctx, utterance, name, spec); ok {
			if v, err := coerce(raw, spec.Type); err == nil {
				return v, SourceNLU, true
			}
		}
	}

	if raw, ok := snap.Fact(name); ok {
		if v, err := coerce(raw, spec.Type); err == nil {
			return v, SourceContext, true
		}
	}

	if spec.Default != nil {
		return spec.Default, SourceDefault, true
	}

	return nil, "", false
}

// askNLU consults the external service with a bounded timeout. Any
// failure, timeout included, reads as "no opinion".
func (e *Extractor) askNLU(ctx context.Context, utterance, name string, spec catalog.ParamSpec) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	value, err := e.nlu.Extract(ctx, &nlu.ExtractRequest{
		Utterance:   utterance,
		Parameter:   name,
		Description: spec.Description,
		Type:        string(spec.Type),
	})
	if err != nil {
		if !errors.Is(err, nlu.ErrNoValue) {
			e.logger.Debug("nlu fallback unavailable",
				"parameter", name,
				"error", err,
			)
		}
		return "", false
	}
	return value, true
}

// coerce converts a raw value to the schema type.
func coerce(raw any, t catalog.ParamType) (any, error) {
	switch t {
	case catalog.TypeInt:
		switch v := raw.(type) {
		case int:
			return v, nil
		case float64:
			return int(v), nil
		case string:
			return strconv.Atoi(strings.TrimSpace(v))
		}
	case catalog.TypeFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			return strconv.ParseFloat(strings.TrimSpace(v), 64)
		}
	case catalog.TypeBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes", "1":
				return true, nil
			case "false", "no", "0":
				return false, nil
			}
			return nil, fmt.Errorf("extract: %q is not a bool", v)
		}
	case catalog.TypeString, "":
		return fmt.Sprintf("%v", raw), nil
	}
	return nil, fmt.Errorf("extract: cannot coerce %T to %s", raw, t)
}
