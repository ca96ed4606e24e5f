package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voiceagi/go-voiceagi/pkg/agent"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	a, err := agent.New()
	if err != nil {
		t.Fatalf("agent.New failed: %v", err)
	}
	return NewServer(a, "0")
}

func TestListTools(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/tools", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Count int `json:"count"`
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Count != 10 {
		t.Errorf("expected 10 default tools, got %d", body.Count)
	}
}

func TestRouteCreatesSession(t *testing.T) {
	s := newTestServer(t)

	payload := bytes.NewBufferString(`{"utterance": "My name is Marc"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/route", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body agent.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Tool != "remember_name" {
		t.Errorf("expected remember_name, got %s", body.Tool)
	}
	if body.SessionID == "" {
		t.Error("expected a session ID for a fresh conversation")
	}

	// The created session is live and inspectable.
	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/api/context/"+body.SessionID, nil))
	if err != nil {
		t.Fatalf("context request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for created session, got %d", resp.StatusCode)
	}
}

func TestRouteValidation(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/route", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty utterance, got %d", resp.StatusCode)
	}
}

func TestRouteUnknownSession(t *testing.T) {
	s := newTestServer(t)

	payload := bytes.NewBufferString(`{"utterance": "hello", "session_id": "nope"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/route", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", resp.StatusCode)
	}
}

func TestContextLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := s.agent.CreateSession()

	req := httptest.NewRequest(http.MethodDelete, "/api/context/"+id, nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/api/stats/"+id, nil))
	if err != nil {
		t.Fatalf("stats request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for stats after clear, got %d", resp.StatusCode)
	}

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/api/stats/unknown", nil))
	if err != nil {
		t.Fatalf("stats request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session stats, got %d", resp.StatusCode)
	}
}
