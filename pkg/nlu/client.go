package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/voiceagi/go-voiceagi/internal/httpc"
)

const providerClient = "client"

// maxValueLen caps how long an extracted value may be. LLMs asked for a
// single value sometimes return a paragraph; anything that long is not
// a parameter value.
const maxValueLen = 200

// noValueMarker is what the model is instructed to answer when the
// utterance contains no value for the parameter.
const noValueMarker = "NONE"

// Client is the standard HTTP-based NLU provider.
// Works with any OpenAI-compatible API (Ollama, OpenAI, vLLM, Together, Groq).
type Client struct {
	baseURL string
	apiKey  string
	config  *Config
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a new NLU client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		config:  cfg,
		http:    httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "nlu.client"),
	}, nil
}

// Extract asks the model for a single parameter value.
func (c *Client) Extract(ctx context.Context, req *ExtractRequest) (string, error) {
	prompt := buildExtractPrompt(req)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	value := strings.TrimSpace(strings.Trim(strings.TrimSpace(content), `"`))
	if value == "" || strings.EqualFold(value, noValueMarker) {
		return "", ErrNoValue
	}
	if len(value) > maxValueLen {
		c.logger.Debug("rejecting overlong extraction", "parameter", req.Parameter, "len", len(value))
		return "", WrapError(providerClient, ErrMalformedResponse)
	}
	if !valueMatchesType(value, req.Type) {
		c.logger.Debug("rejecting mistyped extraction",
			"parameter", req.Parameter,
			"type", req.Type,
			"value", value,
		)
		return "", WrapError(providerClient, ErrMalformedResponse)
	}

	return value, nil
}

// Classify asks the model to label the utterance with one of the
// candidate intents.
func (c *Client) Classify(ctx context.Context, req *ClassifyRequest) (*Classification, error) {
	prompt := buildClassifyPrompt(req)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// The model may wrap the JSON in prose; take the outermost braces.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, WrapError(providerClient, ErrMalformedResponse)
	}

	var result Classification
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	if result.Intent == "" {
		return nil, WrapError(providerClient, ErrMalformedResponse)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		result.Confidence = 0.5
	}

	return &result, nil
}

// Health checks API connectivity.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/models", nil)
	if err != nil {
		return WrapError(providerClient, err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return WrapError(providerClient, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// complete sends a single-turn chat completion and returns the content.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model": c.config.Model,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
	}

	resp, err := c.post(ctx, "/chat/completions", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp)
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(providerClient, fmt.Errorf("decode response: %w", err))
	}
	if len(result.Choices) == 0 {
		return "", WrapError(providerClient, fmt.Errorf("no choices returned"))
	}

	return result.Choices[0].Message.Content, nil
}

// post makes a POST request with retry.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return c.doWithRetry(ctx, req, body)
}

// doWithRetry performs the request with retry logic.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			}
			// Reset body for retry
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = WrapError(providerClient, err)
			c.logger.Warn("request failed, retrying",
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		// Check if retryable
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = c.parseError(resp)
			c.logger.Warn("retrying request",
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads and parses an error response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	// Try to parse OpenAI-style error
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	message := string(body)
	code := ""
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		code = errResp.Error.Code
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Code:       code,
		Provider:   providerClient,
	}
}

// buildExtractPrompt asks for exactly one value or the no-value marker.
func buildExtractPrompt(req *ExtractRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract the value of one parameter from the user's input.\n\n")
	fmt.Fprintf(&b, "Parameter: %s (%s)\n", req.Parameter, req.Type)
	if req.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.Description)
	}
	fmt.Fprintf(&b, "\nUser input: %q\n\n", req.Utterance)
	fmt.Fprintf(&b, "Examples: for \"My name is Marc\" and parameter name, answer: Marc. ")
	fmt.Fprintf(&b, "For \"Research transformer architectures\" and parameter topic, answer: transformer architectures.\n\n")
	fmt.Fprintf(&b, "Answer with the value only, nothing else. If the input contains no value for this parameter, answer %s.", noValueMarker)
	return b.String()
}

// buildClassifyPrompt lists the candidate intents and requests JSON.
func buildClassifyPrompt(req *ClassifyRequest) string {
	var b strings.Builder
	b.WriteString("You are an intent classifier for a voice-controlled assistant.\n")
	b.WriteString("Classify the user's input into one of these intents:\n\n")
	for i, cand := range req.Candidates {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, cand.Name, cand.Description)
	}
	fmt.Fprintf(&b, "\nUser input: %s\n", req.Utterance)
	if req.Context != "" {
		fmt.Fprintf(&b, "\nConversation context:\n%s\n", req.Context)
	}
	b.WriteString("\nRespond with JSON only: {\"intent\": \"intent_name\", \"confidence\": 0.95}")
	return b.String()
}

// valueMatchesType rejects values that do not parse as the expected type.
func valueMatchesType(value, typ string) bool {
	switch typ {
	case "int":
		_, err := strconv.Atoi(value)
		return err == nil
	case "float":
		_, err := strconv.ParseFloat(value, 64)
		return err == nil
	case "bool":
		switch strings.ToLower(value) {
		case "true", "false", "yes", "no", "1", "0":
			return true
		}
		return false
	default:
		return true
	}
}

// API response types
type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Verify Client implements Provider at compile time.
var _ Provider = (*Client)(nil)
