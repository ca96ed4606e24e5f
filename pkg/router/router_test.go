package router

import (
	"context"
	"errors"
	"testing"

	"github.com/voiceagi/go-voiceagi/pkg/catalog"
	"github.com/voiceagi/go-voiceagi/pkg/intent"
	"github.com/voiceagi/go-voiceagi/pkg/nlu"
	"github.com/voiceagi/go-voiceagi/pkg/session"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	b := catalog.NewBuilder()
	b.MustRegister(catalog.ToolSpec{
		Name:           "remember_name",
		Description:    "Remember the user's name",
		TriggerPhrases: []string{"my name is", "remember that i'm", "call me"},
		Priority:       8,
		Parameters: map[string]catalog.ParamSpec{
			"name": {Type: catalog.TypeString, Required: true},
		},
	})
	b.MustRegister(catalog.ToolSpec{
		Name:           "search_memory",
		Description:    "Search conversation memory",
		TriggerPhrases: []string{"remember", "recall", "search your memory"},
		Priority:       8,
		Parameters: map[string]catalog.ParamSpec{
			"query": {Type: catalog.TypeString, Required: true},
		},
	})
	return b.Build()
}

func newTestRouter(t *testing.T, opts ...Option) *Router {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestRouteMatchAndExtract(t *testing.T) {
	r := newTestRouter(t)
	cat := testCatalog(t)
	sess := session.New(0)

	result, err := r.Route(context.Background(), "My name is Marc", cat, sess)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if !result.Matched() {
		t.Fatal("expected a match")
	}
	if result.Match.ToolName != "remember_name" {
		t.Errorf("expected remember_name, got %s", result.Match.ToolName)
	}
	if got := result.Extraction.Values["name"]; got != "Marc" {
		t.Errorf("expected name Marc, got %v", got)
	}
	if !result.Extraction.Complete() {
		t.Errorf("expected complete extraction, missing %v", result.Extraction.Missing)
	}
}

func TestRouteNoMatchIsNotAnError(t *testing.T) {
	r := newTestRouter(t)
	cat := testCatalog(t)

	result, err := r.Route(context.Background(), "asdkjasdf", cat, nil)
	if err != nil {
		t.Fatalf("no-match must not be an error, got %v", err)
	}
	if result.Matched() {
		t.Errorf("expected no match, got %s", result.Match.ToolName)
	}
	if result.Match.Type != intent.MatchNone {
		t.Errorf("expected MatchNone, got %s", result.Match.Type)
	}
	if result.Extraction.Values == nil {
		t.Error("extraction values must be non-nil even without a match")
	}
}

func TestRouteNilCatalog(t *testing.T) {
	r := newTestRouter(t)
	if _, err := r.Route(context.Background(), "anything", nil, nil); !errors.Is(err, ErrNilCatalog) {
		t.Errorf("expected ErrNilCatalog, got %v", err)
	}
}

func TestRouteNilSession(t *testing.T) {
	r := newTestRouter(t)
	cat := testCatalog(t)

	result, err := r.Route(context.Background(), "My name is Marc", cat, nil)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if got := result.Extraction.Values["name"]; got != "Marc" {
		t.Errorf("expected heuristic extraction without a session, got %v", got)
	}
}

func TestRouteUsesSessionFacts(t *testing.T) {
	r := newTestRouter(t)
	cat := testCatalog(t)
	sess := session.New(0)
	sess.SetFact("query", "our first conversation")

	result, err := r.Route(context.Background(), "remember", cat, sess)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if result.Match.ToolName != "search_memory" {
		t.Fatalf("expected search_memory, got %s", result.Match.ToolName)
	}
	if got := result.Extraction.Values["query"]; got != "our first conversation" {
		t.Errorf("expected fact-derived query, got %v", got)
	}
}

func TestRouteClassifierIsAdvisoryOnly(t *testing.T) {
	// The classifier disagrees with the matcher; the matcher wins and
	// the label is attached for diagnostics.
	mock := nlu.NewMock()
	mock.ClassifyFunc = func(ctx context.Context, req *nlu.ClassifyRequest) (*nlu.Classification, error) {
		return &nlu.Classification{Intent: "search_memory", Confidence: 0.99}, nil
	}

	r := newTestRouter(t, WithClassifier(mock))
	cat := testCatalog(t)

	result, err := r.Route(context.Background(), "My name is Marc", cat, nil)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if result.Match.ToolName != "remember_name" {
		t.Errorf("classifier must not override the matcher, got %s", result.Match.ToolName)
	}
	if result.Classification == nil || result.Classification.Intent != "search_memory" {
		t.Errorf("expected advisory classification attached, got %+v", result.Classification)
	}
}

func TestRouteClassifierFailureIsSwallowed(t *testing.T) {
	r := newTestRouter(t, WithClassifier(nlu.WithError(errors.New("down"))))
	cat := testCatalog(t)

	result, err := r.Route(context.Background(), "My name is Marc", cat, nil)
	if err != nil {
		t.Fatalf("classifier outage must not fail routing: %v", err)
	}
	if result.Classification != nil {
		t.Errorf("expected no classification on outage, got %+v", result.Classification)
	}
	if result.Match.ToolName != "remember_name" {
		t.Errorf("expected remember_name, got %s", result.Match.ToolName)
	}
}

func TestRouteDeterministic(t *testing.T) {
	r := newTestRouter(t)
	cat := testCatalog(t)

	first, err := r.Route(context.Background(), "Remember that I'm Marc", cat, nil)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := r.Route(context.Background(), "Remember that I'm Marc", cat, nil)
		if err != nil {
			t.Fatalf("Route failed: %v", err)
		}
		if next.Match != first.Match {
			t.Fatalf("match changed between calls: %+v vs %+v", next.Match, first.Match)
		}
	}
	if first.Match.ToolName != "remember_name" {
		t.Errorf("expected remember_name, got %s", first.Match.ToolName)
	}
}
