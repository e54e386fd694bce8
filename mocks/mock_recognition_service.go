package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"casedesk/internal/service"
)

// MockRecognitionService is a mock implementation of service.RecognitionService.
type MockRecognitionService struct {
	mock.Mock
}

func (m *MockRecognitionService) RecognizeForClient(ctx context.Context, clientID uuid.UUID, fileURL string) (*service.RecognitionResult, error) {
	args := m.Called(ctx, clientID, fileURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecognitionResult), args.Error(1)
}

func (m *MockRecognitionService) RecognizeDocument(ctx context.Context, documentID uuid.UUID) (*service.RecognitionResult, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecognitionResult), args.Error(1)
}
