package advisor

import (
	"context"

	"loan-advisor/internal/domain"
)

// MockClient permite tests sin backend real.
type MockClient struct {
	Reply      string
	ReplyErr   error
	Outcome    domain.PredictionOutcome
	OutcomeErr error

	ChatCalls    int
	PredictCalls int
	LastMessage  string
	LastApp      domain.LoanApplication
}

func (m *MockClient) SendChatMessage(ctx context.Context, message string) (string, error) {
	m.ChatCalls++
	m.LastMessage = message
	return m.Reply, m.ReplyErr
}

func (m *MockClient) PredictLenders(ctx context.Context, app domain.LoanApplication) (domain.PredictionOutcome, error) {
	m.PredictCalls++
	m.LastApp = app
	return m.Outcome, m.OutcomeErr
}
