package auth

import (
	"context"
	"sync"
)

// MockAuthenticator is a mock implementation of the Authenticator interface
// for testing. It is safe for concurrent use.
type MockAuthenticator struct {
	mu sync.Mutex

	// Spies for method calls
	BeginLoginFunc    func(ctx context.Context, email string) (string, error)
	CompleteLoginFunc func(ctx context.Context, email, code string) (string, error)
	VerifyFunc        func(ctx context.Context, token string) (string, error)
	RevokeFunc        func(ctx context.Context, token string) error

	// Call records
	BeginLoginCalls    []string
	CompleteLoginCalls []string
	VerifyCalls        []string
	RevokeCalls        []string
}

// NewMockAuthenticator creates a new mock instance.
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{}
}

var _ Authenticator = (*MockAuthenticator)(nil)

// Reset clears all call records.
func (m *MockAuthenticator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BeginLoginCalls = nil
	m.CompleteLoginCalls = nil
	m.VerifyCalls = nil
	m.RevokeCalls = nil
}

func (m *MockAuthenticator) BeginLogin(ctx context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BeginLoginCalls = append(m.BeginLoginCalls, email)
	if m.BeginLoginFunc != nil {
		return m.BeginLoginFunc(ctx, email)
	}
	return "000000", nil
}

func (m *MockAuthenticator) CompleteLogin(ctx context.Context, email, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteLoginCalls = append(m.CompleteLoginCalls, email+":"+code)
	if m.CompleteLoginFunc != nil {
		return m.CompleteLoginFunc(ctx, email, code)
	}
	return "mock-token", nil
}

func (m *MockAuthenticator) Verify(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerifyCalls = append(m.VerifyCalls, token)
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, token)
	}
	return "ops@dest.example", nil
}

func (m *MockAuthenticator) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RevokeCalls = append(m.RevokeCalls, token)
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token)
	}
	return nil
}
