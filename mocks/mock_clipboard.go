package mocks

import (
	"github.com/stretchr/testify/mock"

	"docassist/internal/port"
)

// MockClipboard is a mock implementation of port.Clipboard.
type MockClipboard struct {
	mock.Mock
}

func (m *MockClipboard) WriteText(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(n port.Notification) {
	m.Called(n)
}
