// Package config provides configuration helpers for go-voiceagi commands.
package config

import (
	"os"
	"strconv"
)

// Default server configuration.
const (
	DefaultPort     = "8090"
	DefaultNLUURL   = "http://localhost:11434/v1"
	DefaultNLUModel = "llama3.2"
	DefaultWindow   = 10
)

// Port returns the HTTP listen port from VOICEAGI_PORT or the default.
func Port() string {
	if p := os.Getenv("VOICEAGI_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// NLUURL returns the NLU endpoint from VOICEAGI_NLU_URL or the default.
// The endpoint must speak the OpenAI chat completions API
// (Ollama exposes it under /v1).
func NLUURL() string {
	if u := os.Getenv("VOICEAGI_NLU_URL"); u != "" {
		return u
	}
	return DefaultNLUURL
}

// NLUModel returns the NLU model from VOICEAGI_NLU_MODEL or the default.
func NLUModel() string {
	if m := os.Getenv("VOICEAGI_NLU_MODEL"); m != "" {
		return m
	}
	return DefaultNLUModel
}

// NLUKey returns the NLU API key from VOICEAGI_NLU_KEY.
// Empty is fine for local providers.
func NLUKey() string {
	return os.Getenv("VOICEAGI_NLU_KEY")
}

// Window returns the conversation window size from VOICEAGI_WINDOW or the default.
func Window() int {
	if w := os.Getenv("VOICEAGI_WINDOW"); w != "" {
		if n, err := strconv.Atoi(w); err == nil && n > 0 {
			return n
		}
	}
	return DefaultWindow
}

// LogLevel returns the log level from VOICEAGI_LOG_LEVEL or "info".
func LogLevel() string {
	if l := os.Getenv("VOICEAGI_LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}
