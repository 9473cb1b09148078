package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docassist/internal/domain"
	"docassist/internal/port"
	"docassist/internal/service"
)

// MockToolService is a mock implementation of service.ToolService.
type MockToolService struct {
	mock.Mock
}

func (m *MockToolService) Run(ctx context.Context, input service.RunToolInput) (*domain.ToolRun, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolRun), args.Error(1)
}

func (m *MockToolService) GetByID(ctx context.Context, tenantID, runID uuid.UUID) (*domain.ToolRun, error) {
	args := m.Called(ctx, tenantID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolRun), args.Error(1)
}

func (m *MockToolService) List(ctx context.Context, tenantID uuid.UUID, filter port.ToolRunFilter, offset, limit int) ([]domain.ToolRun, int, error) {
	args := m.Called(ctx, tenantID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ToolRun), args.Int(1), args.Error(2)
}

func (m *MockToolService) Pair(ctx context.Context, run *domain.ToolRun) (domain.DocumentPair, error) {
	args := m.Called(ctx, run)
	return args.Get(0).(domain.DocumentPair), args.Error(1)
}
