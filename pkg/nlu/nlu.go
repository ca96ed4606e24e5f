// Package nlu talks to the external natural-language understanding
// service used as a fallback by parameter extraction and as an advisory
// classifier by the router.
//
// The wire protocol is the OpenAI chat completions API, which every
// provider the agent runs against exposes (Ollama under /v1, OpenAI,
// vLLM, Together, Groq). Responses are parsed defensively: anything
// malformed, empty or slow is reported as an error, and callers treat
// that as "no opinion", never as a failure of the whole request.
package nlu

import "context"

// Provider is the NLU service abstraction.
type Provider interface {
	// Extract asks the service for the value of a single parameter
	// mentioned in the utterance. Returns ErrNoValue when the service
	// answered but found nothing.
	Extract(ctx context.Context, req *ExtractRequest) (string, error)

	// Classify asks the service to label the utterance with one of the
	// candidate intents. Advisory only.
	Classify(ctx context.Context, req *ClassifyRequest) (*Classification, error)

	// Health checks service connectivity.
	Health(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ExtractRequest carries one parameter-extraction question.
type ExtractRequest struct {
	// Utterance is the raw user text.
	Utterance string

	// Parameter is the name of the parameter to extract.
	Parameter string

	// Description says what the value looks like, from the tool schema.
	Description string

	// Type is the expected value type ("string", "int", "float", "bool").
	Type string
}

// Candidate is one intent label offered to the classifier.
type Candidate struct {
	Name        string
	Description string
}

// ClassifyRequest carries one intent-classification question.
type ClassifyRequest struct {
	// Utterance is the raw user text.
	Utterance string

	// Context is the recent conversation transcript, possibly empty.
	Context string

	// Candidates are the intents the service may choose from.
	Candidates []Candidate
}

// Classification is the classifier's advisory answer.
type Classification struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}
