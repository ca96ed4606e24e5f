package extract

import (
	"errors"
	"log/slog"
	"time"

	"github.com/voiceagi/go-voiceagi/pkg/nlu"
)

const (
	// DefaultNLUTimeout bounds a single fallback call to the external
	// NLU service. On expiry the extractor moves on to context and
	// default resolution.
	DefaultNLUTimeout = 3 * time.Second
)

var (
	ErrInvalidTimeout = errors.New("extract: NLU timeout must be positive")
)

// Config holds extractor settings.
type Config struct {
	// NLU is the optional fallback provider consulted when no
	// heuristic pattern matches. Nil disables the fallback.
	NLU nlu.Provider

	// NLUTimeout bounds each fallback call.
	NLUTimeout time.Duration

	// Logger for extraction diagnostics.
	Logger *slog.Logger
}

// DefaultConfig returns heuristics-only settings.
func DefaultConfig() Config {
	return Config{
		NLUTimeout: DefaultNLUTimeout,
		Logger:     slog.Default(),
	}
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.NLUTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Option configures the extractor.
type Option func(*Config)

// Apply applies options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithNLU enables the external NLU fallback.
func WithNLU(p nlu.Provider) Option {
	return func(c *Config) {
		c.NLU = p
	}
}

// WithNLUTimeout sets the per-call NLU timeout.
func WithNLUTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.NLUTimeout = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
