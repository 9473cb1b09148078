package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docassist/internal/service"
)

// MockViewService is a mock implementation of service.ViewService.
type MockViewService struct {
	mock.Mock
}

func (m *MockViewService) snapshot(args mock.Arguments) (*service.ViewSnapshot, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ViewSnapshot), args.Error(1)
}

func (m *MockViewService) Open(ctx context.Context, owner service.ViewOwner, runID uuid.UUID) (*service.ViewSnapshot, error) {
	return m.snapshot(m.Called(ctx, owner, runID))
}

func (m *MockViewService) Get(owner service.ViewOwner, viewID uuid.UUID) (*service.ViewSnapshot, error) {
	return m.snapshot(m.Called(owner, viewID))
}

func (m *MockViewService) Replace(ctx context.Context, owner service.ViewOwner, viewID, runID uuid.UUID) (*service.ViewSnapshot, error) {
	return m.snapshot(m.Called(ctx, owner, viewID, runID))
}

func (m *MockViewService) Preview(owner service.ViewOwner, viewID uuid.UUID, name string) (*service.ViewSnapshot, error) {
	return m.snapshot(m.Called(owner, viewID, name))
}

func (m *MockViewService) ClosePreview(owner service.ViewOwner, viewID uuid.UUID) (*service.ViewSnapshot, error) {
	return m.snapshot(m.Called(owner, viewID))
}

func (m *MockViewService) StartEdit(owner service.ViewOwner, viewID uuid.UUID) (*service.ViewSnapshot, error) {
	return m.snapshot(m.Called(owner, viewID))
}

func (m *MockViewService) UpdateDraft(owner service.ViewOwner, viewID uuid.UUID, text string) (*service.ViewSnapshot, error) {
	return m.snapshot(m.Called(owner, viewID, text))
}

func (m *MockViewService) Save(owner service.ViewOwner, viewID uuid.UUID) (*service.ViewSnapshot, error) {
	return m.snapshot(m.Called(owner, viewID))
}

func (m *MockViewService) Cancel(owner service.ViewOwner, viewID uuid.UUID) (*service.ViewSnapshot, error) {
	return m.snapshot(m.Called(owner, viewID))
}

func (m *MockViewService) Copy(owner service.ViewOwner, viewID uuid.UUID) (*service.CopyResult, error) {
	args := m.Called(owner, viewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CopyResult), args.Error(1)
}

func (m *MockViewService) Close(owner service.ViewOwner, viewID uuid.UUID) error {
	args := m.Called(owner, viewID)
	return args.Error(0)
}
