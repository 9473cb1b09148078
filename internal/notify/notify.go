// Package notify provides port.Notifier implementations.
package notify

import (
	"sync"

	"go.uber.org/zap"

	"docassist/internal/port"
)

// Recorder collects notifications so a request handler can return them.
type Recorder struct {
	mu    sync.Mutex
	items []port.Notification
}

func (r *Recorder) Notify(n port.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Notifications returns everything recorded so far.
func (r *Recorder) Notifications() []port.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]port.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Drain returns everything recorded so far and forgets it.
func (r *Recorder) Drain() []port.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

// Log writes notifications to a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a Log notifier.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(n port.Notification) {
	fields := []zap.Field{
		zap.String("action", n.Action),
		zap.String("level", string(n.Level)),
	}
	if n.Level == port.NotificationError {
		l.logger.Warn(n.Message, fields...)
		return
	}
	l.logger.Info(n.Message, fields...)
}

// Multi fans a notification out to several notifiers.
type Multi []port.Notifier

func (m Multi) Notify(n port.Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}
