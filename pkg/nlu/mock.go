package nlu

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
type Mock struct {
	// ExtractFunc is called when Extract is invoked.
	ExtractFunc func(ctx context.Context, req *ExtractRequest) (string, error)

	// ClassifyFunc is called when Classify is invoked.
	ClassifyFunc func(ctx context.Context, req *ClassifyRequest) (*Classification, error)

	// HealthFunc is called when Health is invoked.
	HealthFunc func(ctx context.Context) error

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Time   time.Time
}

// NewMock creates a new mock provider with sensible defaults.
func NewMock() *Mock {
	return &Mock{
		ExtractFunc: func(ctx context.Context, req *ExtractRequest) (string, error) {
			return "", ErrNoValue
		},
		ClassifyFunc: func(ctx context.Context, req *ClassifyRequest) (*Classification, error) {
			return &Classification{Intent: "general_query", Confidence: 0.5}, nil
		},
		HealthFunc: func(ctx context.Context) error {
			return nil
		},
	}
}

// WithError returns a mock whose every method fails with err,
// simulating an unreachable service.
func WithError(err error) *Mock {
	return &Mock{
		ExtractFunc: func(ctx context.Context, req *ExtractRequest) (string, error) {
			return "", err
		},
		ClassifyFunc: func(ctx context.Context, req *ClassifyRequest) (*Classification, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Extract calls ExtractFunc and records the call.
func (m *Mock) Extract(ctx context.Context, req *ExtractRequest) (string, error) {
	m.record("Extract")
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, req)
	}
	return "", WrapError("mock", ErrProviderUnavailable)
}

// Classify calls ClassifyFunc and records the call.
func (m *Mock) Classify(ctx context.Context, req *ClassifyRequest) (*Classification, error) {
	m.record("Classify")
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, req)
	}
	return nil, WrapError("mock", ErrProviderUnavailable)
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.record("Close")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// record adds a call to the tracking list.
func (m *Mock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method: method,
		Time:   time.Now(),
	})
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
