package notifier

import "sync"

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendDegradedLoadAlertFunc    func(view string, failures []string, dryRun bool) error
	SendMutationFailureAlertFunc func(action, targetID string, cause error, dryRun bool) error
	SendPartnerStatusAlertFunc   func(partnerName, status string, dryRun bool) error

	// Call records
	DegradedLoadAlertCalls []struct {
		View     string
		Failures []string
	}
	MutationFailureAlertCalls []struct {
		Action   string
		TargetID string
		Cause    error
	}
	PartnerStatusAlertCalls []struct {
		PartnerName string
		Status      string
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

var _ Notifier = (*Mock)(nil)

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DegradedLoadAlertCalls = nil
	m.MutationFailureAlertCalls = nil
	m.PartnerStatusAlertCalls = nil
}

func (m *Mock) SendDegradedLoadAlert(view string, failures []string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DegradedLoadAlertCalls = append(m.DegradedLoadAlertCalls, struct {
		View     string
		Failures []string
	}{view, failures})
	if m.SendDegradedLoadAlertFunc != nil {
		return m.SendDegradedLoadAlertFunc(view, failures, dryRun)
	}
	return nil
}

func (m *Mock) SendMutationFailureAlert(action, targetID string, cause error, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MutationFailureAlertCalls = append(m.MutationFailureAlertCalls, struct {
		Action   string
		TargetID string
		Cause    error
	}{action, targetID, cause})
	if m.SendMutationFailureAlertFunc != nil {
		return m.SendMutationFailureAlertFunc(action, targetID, cause, dryRun)
	}
	return nil
}

func (m *Mock) SendPartnerStatusAlert(partnerName, status string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PartnerStatusAlertCalls = append(m.PartnerStatusAlertCalls, struct {
		PartnerName string
		Status      string
	}{partnerName, status})
	if m.SendPartnerStatusAlertFunc != nil {
		return m.SendPartnerStatusAlertFunc(partnerName, status, dryRun)
	}
	return nil
}
