package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"casedesk/internal/domain"
	"casedesk/internal/service"
)

// MockClientService is a mock implementation of service.ClientService.
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) Create(ctx context.Context, input service.CreateClientInput) (*domain.Client, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) List(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientService) Update(ctx context.Context, id uuid.UUID, input service.UpdateClientInput) (*domain.Client, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) UpdateExtractedData(ctx context.Context, id uuid.UUID, patch *domain.ExtractedData) (*domain.ExtractedData, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedData), args.Error(1)
}

func (m *MockClientService) UpdateProfile(ctx context.Context, id uuid.UUID, input service.UpdateProfileInput) (*domain.Client, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) CheckDuplicate(ctx context.Context, field, value string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, field, value, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientService) Delete(ctx context.Context, id uuid.UUID) (*service.DeleteClientResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteClientResult), args.Error(1)
}
