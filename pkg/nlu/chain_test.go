package nlu

import (
	"context"
	"errors"
	"testing"
)

func TestChainRequiresProviders(t *testing.T) {
	if _, err := NewChain(); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestChainFallsThrough(t *testing.T) {
	broken := WithError(errors.New("connection refused"))
	working := NewMock()
	working.ExtractFunc = func(ctx context.Context, req *ExtractRequest) (string, error) {
		return "Marc", nil
	}

	chain, err := NewChain(broken, working)
	if err != nil {
		t.Fatalf("NewChain failed: %v", err)
	}

	value, err := chain.Extract(context.Background(), &ExtractRequest{Parameter: "name"})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if value != "Marc" {
		t.Errorf("expected Marc, got %q", value)
	}
	if broken.CallCount("Extract") != 1 || working.CallCount("Extract") != 1 {
		t.Error("expected both providers to be tried in order")
	}
}

func TestChainNoValueIsNotFailure(t *testing.T) {
	// A provider that answers "nothing here" must stop the chain;
	// only transport/parse failures fall through.
	first := NewMock() // default Extract returns ErrNoValue
	second := NewMock()
	second.ExtractFunc = func(ctx context.Context, req *ExtractRequest) (string, error) {
		return "should never be reached", nil
	}

	chain, _ := NewChain(first, second)
	_, err := chain.Extract(context.Background(), &ExtractRequest{Parameter: "name"})
	if !errors.Is(err, ErrNoValue) {
		t.Fatalf("expected ErrNoValue, got %v", err)
	}
	if second.CallCount("Extract") != 0 {
		t.Error("second provider must not be consulted after a no-value answer")
	}
}

func TestChainAggregatesErrors(t *testing.T) {
	chain, _ := NewChain(
		WithError(errors.New("down")),
		WithError(errors.New("also down")),
	)

	_, err := chain.Extract(context.Background(), &ExtractRequest{Parameter: "name"})
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("expected ChainError, got %v", err)
	}
	if len(chainErr.Errors) != 2 {
		t.Errorf("expected 2 aggregated errors, got %d", len(chainErr.Errors))
	}
}

func TestChainClassify(t *testing.T) {
	m := NewMock()
	m.ClassifyFunc = func(ctx context.Context, req *ClassifyRequest) (*Classification, error) {
		return &Classification{Intent: "check_status", Confidence: 0.8}, nil
	}

	chain, _ := NewChain(m)
	result, err := chain.Classify(context.Background(), &ClassifyRequest{Utterance: "how are things"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Intent != "check_status" {
		t.Errorf("expected check_status, got %q", result.Intent)
	}
}
