// Package intent scores utterances against the tool catalog and picks
// the tool the user most likely asked for.
//
// Matching is tiered: an exact phrase beats a phrase at the start of the
// utterance, which beats a phrase anywhere, which beats a partial phrase,
// which beats scattered word overlap. All substring tiers are word-boundary
// aware, so "remembered" never fires a "remember" trigger. Scores are
// weighted by tool priority, and the longest textual match dominates
// regardless of registration order.
package intent

import (
	"errors"
	"fmt"

	"github.com/voiceagi/go-voiceagi/pkg/catalog"
)

// Configuration errors.
var (
	ErrInvalidPartialTokens = errors.New("intent: partial tokens must be >= 1")
	ErrInvalidMargin        = errors.New("intent: ambiguity margin must be >= 1")
	ErrInvalidBonus         = errors.New("intent: tier bonus must be >= 1")
)

// MatchType identifies which tier produced a match.
type MatchType string

// Match tiers, most to least specific.
const (
	MatchExact          MatchType = "exact"
	MatchPhraseStart    MatchType = "phrase-start"
	MatchPhraseAnywhere MatchType = "phrase-anywhere"
	MatchPartialPhrase  MatchType = "partial-phrase"
	MatchWordLevel      MatchType = "word-level"
	MatchNone           MatchType = "none"
)

// Result is the outcome of matching one utterance against the catalog.
type Result struct {
	// Tool is the winning tool, or nil when nothing scored.
	Tool *catalog.ToolSpec `json:"-"`

	// ToolName duplicates Tool.Name for serialization.
	ToolName string `json:"tool,omitempty"`

	// Score is the winning tool's final score. Zero iff Tool is nil.
	Score float64 `json:"score"`

	// Type is the tier that produced the winning score.
	Type MatchType `json:"type"`

	// Phrase is the trigger phrase behind the winning score.
	Phrase string `json:"phrase,omitempty"`

	// RunnerUpScore is the second-best tool's score, for ambiguity
	// reporting. Zero when there is no second candidate.
	RunnerUpScore float64 `json:"runner_up_score"`

	// Ambiguous is set when the top score does not clear the configured
	// margin over the runner-up. The top tool is still returned;
	// callers that want to reject ambiguous matches can inspect this.
	Ambiguous bool `json:"ambiguous"`
}

// Matcher scores utterances against a catalog. It is stateless apart
// from configuration and safe for concurrent use.
type Matcher struct {
	cfg *Config
}

// NewMatcher creates a matcher with the given options.
func NewMatcher(opts ...Option) (*Matcher, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{cfg: cfg}, nil
}

// phraseScore is the best score a single phrase achieved.
type phraseScore struct {
	score float64
	tier  MatchType
}

// Match scores the utterance against every tool in the catalog and
// returns the winner. Deterministic: identical inputs always yield an
// identical Result. Ties are broken by catalog declaration order.
func (m *Matcher) Match(utterance string, cat *catalog.Catalog) Result {
	norm := normalize(utterance)
	if norm == "" || cat == nil || cat.Len() == 0 {
		return Result{Type: MatchNone}
	}

	utterTokens := meaningfulSet(tokenize(norm))

	var (
		best, runnerUp Result
	)

	for _, tool := range cat.Tools() {
		weight := 1 + float64(tool.Priority)/10

		var toolBest phraseScore
		var toolPhrase string

		for _, phrase := range tool.TriggerPhrases {
			ps := m.scorePhrase(norm, utterTokens, phrase)
			if ps.score > toolBest.score {
				toolBest = ps
				toolPhrase = phrase
			}
		}

		if toolBest.score <= 0 {
			continue
		}

		final := toolBest.score * weight
		switch toolBest.tier {
		case MatchExact:
			final *= m.cfg.ExactBonus
		case MatchPhraseStart:
			final *= m.cfg.PhraseStartBonus
		}

		// Strict comparison keeps the first-registered tool on ties.
		if final > best.Score {
			runnerUp = best
			best = Result{
				Tool:     tool,
				ToolName: tool.Name,
				Score:    final,
				Type:     toolBest.tier,
				Phrase:   toolPhrase,
			}
		} else if final > runnerUp.Score {
			runnerUp = Result{Tool: tool, Score: final}
		}
	}

	if best.Tool == nil {
		return Result{Type: MatchNone}
	}

	best.RunnerUpScore = runnerUp.Score
	if runnerUp.Score > 0 && best.Score < runnerUp.Score*m.cfg.AmbiguityMargin {
		best.Ambiguous = true
		m.cfg.Logger.Warn("ambiguous match",
			"utterance", norm,
			"tool", best.ToolName,
			"score", fmt.Sprintf("%.1f", best.Score),
			"runner_up", runnerUp.Tool.Name,
			"runner_up_score", fmt.Sprintf("%.1f", runnerUp.Score),
		)
	}

	m.cfg.Logger.Debug("matched tool",
		"utterance", norm,
		"tool", best.ToolName,
		"tier", string(best.Type),
		"phrase", best.Phrase,
		"score", fmt.Sprintf("%.1f", best.Score),
	)

	return best
}

// scorePhrase computes the best tier score for one phrase against the
// normalized utterance. Tiers are tried most specific first; the first
// tier that fires wins for this phrase.
func (m *Matcher) scorePhrase(norm string, utterTokens map[string]bool, phrase string) phraseScore {
	phraseTokens := tokenize(phrase)
	lengthBonus := tokenBonus * float64(len(phraseTokens))

	if norm == phrase {
		return phraseScore{score: scoreExact, tier: MatchExact}
	}

	if hasBoundedPrefix(norm, phrase) {
		return phraseScore{score: scorePhraseStart + lengthBonus, tier: MatchPhraseStart}
	}

	if containsBounded(norm, phrase) {
		return phraseScore{score: scorePhraseAnywhere + lengthBonus, tier: MatchPhraseAnywhere}
	}

	if len(phraseTokens) > m.cfg.PartialTokens {
		prefix := joinTokens(phraseTokens[:m.cfg.PartialTokens])
		suffix := joinTokens(phraseTokens[len(phraseTokens)-m.cfg.PartialTokens:])
		if containsBounded(norm, prefix) || containsBounded(norm, suffix) {
			return phraseScore{score: scorePartialPhrase + lengthBonus, tier: MatchPartialPhrase}
		}
	}

	meaningful := meaningfulTokens(phraseTokens)
	if len(meaningful) == 0 {
		return phraseScore{}
	}
	matched := 0
	for _, tok := range meaningful {
		if utterTokens[tok] {
			matched++
		}
	}
	if matched == 0 {
		return phraseScore{}
	}
	ratio := float64(matched) / float64(len(meaningful))
	return phraseScore{score: scoreWordLevel*ratio + lengthBonus, tier: MatchWordLevel}
}
