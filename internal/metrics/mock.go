package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	fetchRuns         int
	fetchFailures     int
	recordsNormalized int
	mutationsApplied  int
	mutationFailures  int
	loadDurations     []float64
	opsAlertsSent     int
	opsAlertsFailed   int
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		loadDurations: make([]float64, 0),
	}
}

var _ Metrics = (*Mock)(nil)

func (m *Mock) IncFetchRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchRuns++
}

func (m *Mock) IncFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchFailures++
}

func (m *Mock) AddRecordsNormalized(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsNormalized += count
}

func (m *Mock) IncMutationsApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutationsApplied++
}

func (m *Mock) IncMutationFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutationFailures++
}

func (m *Mock) ObserveLoadDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadDurations = append(m.loadDurations, duration)
}

func (m *Mock) IncOpsAlertsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opsAlertsSent++
}

func (m *Mock) IncOpsAlertsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opsAlertsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// FetchRuns returns the number of times IncFetchRuns was called.
func (m *Mock) FetchRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchRuns
}

// FetchFailures returns the number of times IncFetchFailures was called.
func (m *Mock) FetchFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchFailures
}

// RecordsNormalized returns the accumulated normalized record count.
func (m *Mock) RecordsNormalized() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordsNormalized
}

// MutationsApplied returns the number of times IncMutationsApplied was called.
func (m *Mock) MutationsApplied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutationsApplied
}

// MutationFailures returns the number of times IncMutationFailures was called.
func (m *Mock) MutationFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutationFailures
}

// OpsAlertsSent returns the number of times IncOpsAlertsSent was called.
func (m *Mock) OpsAlertsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opsAlertsSent
}

// OpsAlertsFailed returns the number of times IncOpsAlertsFailed was called.
func (m *Mock) OpsAlertsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opsAlertsFailed
}
