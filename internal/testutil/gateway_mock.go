package testutil

import (
	"context"
	"sync"

	"github.com/fundwatch/fund-monitor-backend/internal/model"
)

// PushedMessage captures one Push call made against the mock gateway.
type PushedMessage struct {
	WebhookURL string
	Title      string
	Markdown   string
}

// MockGatewayClient is a mock implementation of gateway.Client for testing.
// It returns predefined fund details and records delivered pushes.
type MockGatewayClient struct {
	mu sync.Mutex

	// Details maps fund code to the detail returned by FundDetail.
	Details map[string]*model.FundDetail
	// DetailErr, when set, is returned by FundDetail for every code.
	DetailErr error
	// PushErr, when set, is returned by Push.
	PushErr error

	// Pushed records every Push call in order.
	Pushed []PushedMessage
}

// NewMockGatewayClient creates a mock gateway client with no fund details.
func NewMockGatewayClient() *MockGatewayClient {
	return &MockGatewayClient{
		Details: map[string]*model.FundDetail{},
	}
}

// WithDetail sets the detail returned for one fund code.
func (m *MockGatewayClient) WithDetail(detail *model.FundDetail) *MockGatewayClient {
	m.Details[detail.Code] = detail
	return m
}

// WithDetailError configures FundDetail to fail.
func (m *MockGatewayClient) WithDetailError(err error) *MockGatewayClient {
	m.DetailErr = err
	return m
}

// WithPushError configures Push to fail.
func (m *MockGatewayClient) WithPushError(err error) *MockGatewayClient {
	m.PushErr = err
	return m
}

// FundDetail returns the configured detail for the code.
func (m *MockGatewayClient) FundDetail(_ context.Context, code string) (*model.FundDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DetailErr != nil {
		return nil, m.DetailErr
	}
	if detail, ok := m.Details[code]; ok {
		return detail, nil
	}

	return &model.FundDetail{
		Code:         code,
		Name:         "Test Fund",
		Type:         "混合型",
		NetWorth:     1.0,
		NetWorthDate: "2025-01-02",
	}, nil
}

// Push records the delivery and returns the configured error.
func (m *MockGatewayClient) Push(_ context.Context, webhookURL, title, markdown string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Pushed = append(m.Pushed, PushedMessage{
		WebhookURL: webhookURL,
		Title:      title,
		Markdown:   markdown,
	})

	return m.PushErr
}
