package intent

import "log/slog"

// Base scores for each match tier. A tier's base is multiplied by the
// tool's priority weight before comparison, so these only fix the
// relative ordering of the tiers.
const (
	scoreExact          = 1000.0
	scorePhraseStart    = 200.0
	scorePhraseAnywhere = 100.0
	scorePartialPhrase  = 60.0
	scoreWordLevel      = 20.0

	// tokenBonus is added per phrase token on the sub-exact tiers so
	// that the longest textual match wins regardless of registration
	// order ("remember that i'm" must beat a bare "remember").
	tokenBonus = 2.0
)

// Config holds matcher configuration.
type Config struct {
	// PartialTokens is the prefix/suffix length, in tokens, used by the
	// partial-phrase tier for multi-word trigger phrases.
	PartialTokens int

	// AmbiguityMargin is the minimum top/runner-up score ratio below
	// which a match is flagged ambiguous. Advisory only: the top tool
	// is still returned.
	AmbiguityMargin float64

	// ExactBonus is the extra multiplier for exact phrase matches.
	ExactBonus float64

	// PhraseStartBonus is the extra multiplier for phrase-at-start matches.
	PhraseStartBonus float64

	// Logger is the structured logger for match diagnostics.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PartialTokens:    2,
		AmbiguityMargin:  1.2,
		ExactBonus:       1.5,
		PhraseStartBonus: 1.2,
		Logger:           slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.PartialTokens < 1 {
		return ErrInvalidPartialTokens
	}
	if c.AmbiguityMargin < 1 {
		return ErrInvalidMargin
	}
	if c.ExactBonus < 1 || c.PhraseStartBonus < 1 {
		return ErrInvalidBonus
	}
	return nil
}

// Option is a functional option for configuring the matcher.
type Option func(*Config)

// WithPartialTokens sets the partial-phrase prefix/suffix length.
func WithPartialTokens(n int) Option {
	return func(c *Config) { c.PartialTokens = n }
}

// WithAmbiguityMargin sets the ambiguity ratio threshold.
func WithAmbiguityMargin(m float64) Option {
	return func(c *Config) { c.AmbiguityMargin = m }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
