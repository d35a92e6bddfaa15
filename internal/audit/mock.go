package audit

import (
	"context"
	"sync"
)

// MockTrail is a mock implementation of the Trail interface for testing.
// It is safe for concurrent use.
type MockTrail struct {
	mu sync.Mutex

	// Spies for method calls
	RecordFunc func(ctx context.Context, operator, action, targetID, detail string) error
	ListFunc   func(ctx context.Context, limit int) ([]Entry, error)

	// Call records
	RecordCalls []Entry
	ListCalls   []int
}

// NewMockTrail creates a new mock instance.
func NewMockTrail() *MockTrail {
	return &MockTrail{}
}

var _ Trail = (*MockTrail)(nil)

// Reset clears all call records.
func (m *MockTrail) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordCalls = nil
	m.ListCalls = nil
}

func (m *MockTrail) Record(ctx context.Context, operator, action, targetID, detail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordCalls = append(m.RecordCalls, Entry{Operator: operator, Action: action, TargetID: targetID, Detail: detail})
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, operator, action, targetID, detail)
	}
	return nil
}

func (m *MockTrail) List(ctx context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls = append(m.ListCalls, limit)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return nil, nil
}
