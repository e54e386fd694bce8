package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"casedesk/internal/domain"
	"casedesk/internal/recognition"
)

// MockExtractor is a mock implementation of service.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, fileBytes []byte, mimeType string) (*domain.ExtractedData, *recognition.Outcome) {
	args := m.Called(ctx, fileBytes, mimeType)
	var outcome *recognition.Outcome
	if args.Get(1) != nil {
		outcome = args.Get(1).(*recognition.Outcome)
	}
	return args.Get(0).(*domain.ExtractedData), outcome
}
