package router

import (
	"log/slog"

	"github.com/voiceagi/go-voiceagi/pkg/extract"
	"github.com/voiceagi/go-voiceagi/pkg/intent"
	"github.com/voiceagi/go-voiceagi/pkg/nlu"
)

// Config holds router settings.
type Config struct {
	// Matcher scores utterances against the catalog. Nil gets a
	// default matcher.
	Matcher *intent.Matcher

	// Extractor fills parameter schemas. Nil gets a heuristics-only
	// extractor.
	Extractor *extract.Extractor

	// Classifier, when set, produces an advisory intent label that is
	// attached to results and logged. It never gates selection.
	Classifier nlu.Provider

	// Logger for routing diagnostics.
	Logger *slog.Logger
}

// DefaultConfig returns a config with default components.
func DefaultConfig() Config {
	return Config{
		Logger: slog.Default(),
	}
}

// Option configures the router.
type Option func(*Config)

// Apply applies options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithMatcher sets a custom intent matcher.
func WithMatcher(m *intent.Matcher) Option {
	return func(c *Config) {
		c.Matcher = m
	}
}

// WithExtractor sets a custom parameter extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(c *Config) {
		c.Extractor = e
	}
}

// WithClassifier enables the advisory classifier.
func WithClassifier(p nlu.Provider) Option {
	return func(c *Config) {
		c.Classifier = p
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
