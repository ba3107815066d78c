package testutil

import (
	"context"
	"sync"

	"github.com/fundwatch/fund-monitor-backend/internal/eastmoney"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
)

// MockFundClient is a mock implementation of eastmoney.Client for testing.
// It returns predefined data instead of calling the public endpoints.
type MockFundClient struct {
	mu sync.Mutex

	// Directory is returned by FetchDirectory.
	Directory []model.DirectoryEntry
	// DirectoryErr, when set, is returned by FetchDirectory.
	DirectoryErr error
	// Snapshots maps fund code to the snapshot returned by FetchNav.
	Snapshots map[string]*eastmoney.NavSnapshot
	// NavErrs maps fund code to a per-fund FetchNav error.
	NavErrs map[string]error

	// DirectoryCalls counts FetchDirectory invocations.
	DirectoryCalls int
	// NavCalls counts FetchNav invocations.
	NavCalls int
}

// NewMockFundClient creates a mock fund client with an empty directory.
func NewMockFundClient() *MockFundClient {
	return &MockFundClient{
		Snapshots: map[string]*eastmoney.NavSnapshot{},
		NavErrs:   map[string]error{},
	}
}

// WithDirectory sets the directory returned by FetchDirectory.
func (m *MockFundClient) WithDirectory(entries ...model.DirectoryEntry) *MockFundClient {
	m.Directory = entries
	return m
}

// WithDirectoryError configures FetchDirectory to fail.
func (m *MockFundClient) WithDirectoryError(err error) *MockFundClient {
	m.DirectoryErr = err
	return m
}

// WithSnapshot sets the snapshot returned for one fund code.
func (m *MockFundClient) WithSnapshot(code string, snapshot *eastmoney.NavSnapshot) *MockFundClient {
	m.Snapshots[code] = snapshot
	return m
}

// WithNavError configures FetchNav to fail for one fund code.
func (m *MockFundClient) WithNavError(code string, err error) *MockFundClient {
	m.NavErrs[code] = err
	return m
}

// FetchDirectory returns the configured directory.
func (m *MockFundClient) FetchDirectory(_ context.Context) ([]model.DirectoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DirectoryCalls++
	if m.DirectoryErr != nil {
		return nil, m.DirectoryErr
	}
	return m.Directory, nil
}

// FetchNav returns the configured snapshot for the code, or a synthetic
// snapshot when none was configured. FetchNav is called concurrently by the
// page fan-out, so state access is locked.
func (m *MockFundClient) FetchNav(_ context.Context, code string) (*eastmoney.NavSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.NavCalls++
	if err, ok := m.NavErrs[code]; ok {
		return nil, err
	}
	if snapshot, ok := m.Snapshots[code]; ok {
		return snapshot, nil
	}

	return &eastmoney.NavSnapshot{
		Code:            code,
		NetWorth:        1.0,
		NetWorthDate:    "2025-01-02",
		ExpectWorth:     1.0,
		ExpectWorthDate: "2025-01-03 15:00",
	}, nil
}
