package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docassist/internal/domain"
	"docassist/internal/port"
)

// MockToolRunRepo is a mock implementation of port.ToolRunRepository.
type MockToolRunRepo struct {
	mock.Mock
}

func (m *MockToolRunRepo) Create(ctx context.Context, run *domain.ToolRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockToolRunRepo) GetByID(ctx context.Context, tenantID, runID uuid.UUID) (*domain.ToolRun, error) {
	args := m.Called(ctx, tenantID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolRun), args.Error(1)
}

func (m *MockToolRunRepo) List(ctx context.Context, tenantID uuid.UUID, filter port.ToolRunFilter, offset, limit int) ([]domain.ToolRun, int, error) {
	args := m.Called(ctx, tenantID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ToolRun), args.Int(1), args.Error(2)
}
