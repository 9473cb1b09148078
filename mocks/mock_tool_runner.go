package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docassist/internal/port"
)

// MockToolRunner is a mock implementation of port.ToolRunner.
type MockToolRunner struct {
	mock.Mock
}

func (m *MockToolRunner) Run(ctx context.Context, input port.ToolInput) (*port.ToolOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ToolOutput), args.Error(1)
}
