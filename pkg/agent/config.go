package agent

import (
	"log/slog"

	"github.com/voiceagi/go-voiceagi/pkg/catalog"
	"github.com/voiceagi/go-voiceagi/pkg/router"
	"github.com/voiceagi/go-voiceagi/pkg/session"
)

// Config holds agent settings.
type Config struct {
	// Catalog is the tool set. Nil gets DefaultCatalog.
	Catalog *catalog.Catalog

	// Router routes utterances. Nil gets a default router.
	Router *router.Router

	// Window is the per-session conversation window.
	Window int

	// Logger for agent diagnostics.
	Logger *slog.Logger
}

// DefaultConfig returns agent defaults.
func DefaultConfig() Config {
	return Config{
		Window: session.DefaultWindow,
		Logger: slog.Default(),
	}
}

// Option configures the agent app.
type Option func(*Config)

// Apply applies options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithCatalog sets a custom tool catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Config) {
		c.Catalog = cat
	}
}

// WithRouter sets a custom router.
func WithRouter(r *router.Router) Option {
	return func(c *Config) {
		c.Router = r
	}
}

// WithWindow sets the conversation window size.
func WithWindow(w int) Option {
	return func(c *Config) {
		c.Window = w
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
