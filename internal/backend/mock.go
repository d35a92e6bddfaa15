package backend

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	ListPartnersFunc           func(ctx context.Context, limit, offset int) ([]Row, error)
	ListCustomersFunc          func(ctx context.Context, limit, offset int) ([]Row, error)
	GetPartnerDetailFunc       func(ctx context.Context, key string) (*PartnerDetailRows, error)
	ListCourseOrdersFunc       func(ctx context.Context) ([]Row, error)
	ListTurfOrdersFunc         func(ctx context.Context) ([]Row, error)
	GetPaymentsByIdsFunc       func(ctx context.Context, ids []string) ([]Row, error)
	ListSupportRequestsFunc    func(ctx context.Context, audience string) ([]Row, error)
	GetUserHistoryFunc         func(ctx context.Context, userID string) ([]Row, error)
	SetPartnerVerifiedFunc     func(ctx context.Context, partnerID string, verified bool) error
	SetPartnerDisabledFunc     func(ctx context.Context, partnerID string, disabled bool) error
	SoftDeleteAccountFunc      func(ctx context.Context, userID string) error
	CreateManualEnrollmentFunc func(ctx context.Context, enrollment Enrollment) error
	ResolveSupportRequestFunc  func(ctx context.Context, audience, requestID string) error
	SaveSupportSolutionFunc    func(ctx context.Context, audience, requestID, solution string) error

	// Call records
	GetPartnerDetailCalls       []string
	GetPaymentsByIdsCalls       [][]string
	ListSupportRequestsCalls    []string
	GetUserHistoryCalls         []string
	SetPartnerVerifiedCalls     []string
	SetPartnerDisabledCalls     []string
	SoftDeleteAccountCalls      []string
	CreateManualEnrollmentCalls []Enrollment
	ResolveSupportRequestCalls  []string
	SaveSupportSolutionCalls    []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements the Client interface.
var _ Client = (*MockClient)(nil)

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPartnerDetailCalls = nil
	m.GetPaymentsByIdsCalls = nil
	m.ListSupportRequestsCalls = nil
	m.GetUserHistoryCalls = nil
	m.SetPartnerVerifiedCalls = nil
	m.SetPartnerDisabledCalls = nil
	m.SoftDeleteAccountCalls = nil
	m.CreateManualEnrollmentCalls = nil
	m.ResolveSupportRequestCalls = nil
	m.SaveSupportSolutionCalls = nil
}

func (m *MockClient) ListPartners(ctx context.Context, limit, offset int) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPartnersFunc != nil {
		return m.ListPartnersFunc(ctx, limit, offset)
	}
	return []Row{}, nil
}

func (m *MockClient) ListCustomers(ctx context.Context, limit, offset int) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListCustomersFunc != nil {
		return m.ListCustomersFunc(ctx, limit, offset)
	}
	return []Row{}, nil
}

func (m *MockClient) GetPartnerDetail(ctx context.Context, key string) (*PartnerDetailRows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPartnerDetailCalls = append(m.GetPartnerDetailCalls, key)
	if m.GetPartnerDetailFunc != nil {
		return m.GetPartnerDetailFunc(ctx, key)
	}
	return nil, nil
}

func (m *MockClient) ListCourseOrders(ctx context.Context) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListCourseOrdersFunc != nil {
		return m.ListCourseOrdersFunc(ctx)
	}
	return []Row{}, nil
}

func (m *MockClient) ListTurfOrders(ctx context.Context) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListTurfOrdersFunc != nil {
		return m.ListTurfOrdersFunc(ctx)
	}
	return []Row{}, nil
}

func (m *MockClient) GetPaymentsByIds(ctx context.Context, ids []string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPaymentsByIdsCalls = append(m.GetPaymentsByIdsCalls, ids)
	if m.GetPaymentsByIdsFunc != nil {
		return m.GetPaymentsByIdsFunc(ctx, ids)
	}
	return []Row{}, nil
}

func (m *MockClient) ListSupportRequests(ctx context.Context, audience string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListSupportRequestsCalls = append(m.ListSupportRequestsCalls, audience)
	if m.ListSupportRequestsFunc != nil {
		return m.ListSupportRequestsFunc(ctx, audience)
	}
	return []Row{}, nil
}

func (m *MockClient) GetUserHistory(ctx context.Context, userID string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetUserHistoryCalls = append(m.GetUserHistoryCalls, userID)
	if m.GetUserHistoryFunc != nil {
		return m.GetUserHistoryFunc(ctx, userID)
	}
	return []Row{}, nil
}

func (m *MockClient) SetPartnerVerified(ctx context.Context, partnerID string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetPartnerVerifiedCalls = append(m.SetPartnerVerifiedCalls, partnerID)
	if m.SetPartnerVerifiedFunc != nil {
		return m.SetPartnerVerifiedFunc(ctx, partnerID, verified)
	}
	return nil
}

func (m *MockClient) SetPartnerDisabled(ctx context.Context, partnerID string, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetPartnerDisabledCalls = append(m.SetPartnerDisabledCalls, partnerID)
	if m.SetPartnerDisabledFunc != nil {
		return m.SetPartnerDisabledFunc(ctx, partnerID, disabled)
	}
	return nil
}

func (m *MockClient) SoftDeleteAccount(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SoftDeleteAccountCalls = append(m.SoftDeleteAccountCalls, userID)
	if m.SoftDeleteAccountFunc != nil {
		return m.SoftDeleteAccountFunc(ctx, userID)
	}
	return nil
}

func (m *MockClient) CreateManualEnrollment(ctx context.Context, enrollment Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateManualEnrollmentCalls = append(m.CreateManualEnrollmentCalls, enrollment)
	if m.CreateManualEnrollmentFunc != nil {
		return m.CreateManualEnrollmentFunc(ctx, enrollment)
	}
	return nil
}

func (m *MockClient) ResolveSupportRequest(ctx context.Context, audience, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveSupportRequestCalls = append(m.ResolveSupportRequestCalls, audience+":"+requestID)
	if m.ResolveSupportRequestFunc != nil {
		return m.ResolveSupportRequestFunc(ctx, audience, requestID)
	}
	return nil
}

func (m *MockClient) SaveSupportSolution(ctx context.Context, audience, requestID, solution string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveSupportSolutionCalls = append(m.SaveSupportSolutionCalls, audience+":"+requestID)
	if m.SaveSupportSolutionFunc != nil {
		return m.SaveSupportSolutionFunc(ctx, audience, requestID, solution)
	}
	return nil
}
