package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"casedesk/internal/domain"
)

// MockClientRepo is a mock implementation of port.ClientRepository.
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepo) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepo) UpdateExtractedData(ctx context.Context, id uuid.UUID, data *domain.ExtractedData) error {
	args := m.Called(ctx, id, data)
	return args.Error(0)
}

func (m *MockClientRepo) UpdateProfile(ctx context.Context, id uuid.UUID, data *domain.ExtractedData, patch domain.ProfilePatch) error {
	args := m.Called(ctx, id, data, patch)
	return args.Error(0)
}

func (m *MockClientRepo) ExistsByField(ctx context.Context, field domain.UniqueField, value string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, field, value, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
