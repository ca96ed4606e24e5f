package nlu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// completionServer returns an httptest server answering every chat
// completion with the given content.
func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(WithBaseURL(baseURL), WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestExtract(t *testing.T) {
	srv := completionServer(t, "Marc")
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	value, err := c.Extract(context.Background(), &ExtractRequest{
		Utterance: "My name is Marc",
		Parameter: "name",
		Type:      "string",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if value != "Marc" {
		t.Errorf("expected Marc, got %q", value)
	}
}

func TestExtractNoValue(t *testing.T) {
	srv := completionServer(t, "NONE")
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Extract(context.Background(), &ExtractRequest{
		Utterance: "hello there",
		Parameter: "name",
		Type:      "string",
	})
	if !errors.Is(err, ErrNoValue) {
		t.Errorf("expected ErrNoValue, got %v", err)
	}
}

func TestExtractQuotedValue(t *testing.T) {
	srv := completionServer(t, `"transformer architectures"`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	value, err := c.Extract(context.Background(), &ExtractRequest{
		Utterance: "Research transformer architectures",
		Parameter: "topic",
		Type:      "string",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if value != "transformer architectures" {
		t.Errorf("expected unquoted value, got %q", value)
	}
}

func TestExtractRejectsMistypedValue(t *testing.T) {
	srv := completionServer(t, "about five")
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Extract(context.Background(), &ExtractRequest{
		Utterance: "show me about five tasks",
		Parameter: "limit",
		Type:      "int",
	})
	if err == nil {
		t.Fatal("expected error for non-integer answer")
	}
	if errors.Is(err, ErrNoValue) {
		t.Error("type rejection must not look like a clean no-value answer")
	}
}

func TestExtractRejectsOverlongValue(t *testing.T) {
	srv := completionServer(t, strings.Repeat("word ", 100))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Extract(context.Background(), &ExtractRequest{
		Utterance: "anything",
		Parameter: "name",
		Type:      "string",
	})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestClassifyParsesJSONInProse(t *testing.T) {
	srv := completionServer(t, `Sure! Here is the classification: {"intent": "start_research", "confidence": 0.92} hope that helps`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	result, err := c.Classify(context.Background(), &ClassifyRequest{
		Utterance:  "research transformers",
		Candidates: []Candidate{{Name: "start_research", Description: "start research"}},
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Intent != "start_research" {
		t.Errorf("expected start_research, got %q", result.Intent)
	}
	if result.Confidence != 0.92 {
		t.Errorf("expected confidence 0.92, got %f", result.Confidence)
	}
}

func TestClassifyMalformedResponse(t *testing.T) {
	srv := completionServer(t, "i cannot help with that")
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Classify(context.Background(), &ClassifyRequest{Utterance: "x"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Marc"}}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	value, err := c.Extract(context.Background(), &ExtractRequest{
		Utterance: "my name is marc", Parameter: "name", Type: "string",
	})
	if err != nil {
		t.Fatalf("Extract failed after retry: %v", err)
	}
	if value != "Marc" {
		t.Errorf("expected Marc, got %q", value)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestAPIErrorClassification(t *testing.T) {
	e := &APIError{StatusCode: 429, Provider: providerClient}
	if !e.IsRateLimited() || !e.IsRetryable() {
		t.Error("429 must be rate-limited and retryable")
	}

	e = &APIError{StatusCode: 503, Provider: providerClient}
	if !e.IsServerError() || !e.IsRetryable() {
		t.Error("503 must be a retryable server error")
	}

	e = &APIError{StatusCode: 401, Provider: providerClient}
	if e.IsRetryable() {
		t.Error("401 must not be retryable")
	}
}

func TestValueMatchesType(t *testing.T) {
	tests := []struct {
		value, typ string
		want       bool
	}{
		{"5", "int", true},
		{"five", "int", false},
		{"3.14", "float", true},
		{"yes", "bool", true},
		{"maybe", "bool", false},
		{"anything", "string", true},
		{"anything", "", true},
	}

	for _, tt := range tests {
		if got := valueMatchesType(tt.value, tt.typ); got != tt.want {
			t.Errorf("valueMatchesType(%q, %q) = %v, want %v", tt.value, tt.typ, got, tt.want)
		}
	}
}
