package toolrunner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"docassist/internal/port"
)

// Logger is the subset of *zap.Logger the fallback runner uses.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
}

// circuitState tracks rate-limit backoff for a single runner.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackRunner tries runners in order, skipping those whose circuit is open
// after a rate limit. It implements port.ToolRunner.
type FallbackRunner struct {
	runners  []port.ToolRunner
	circuits []*circuitState
	names    []string
	logger   Logger
	now      func() time.Time
}

// NewFallbackRunner creates a FallbackRunner from an ordered list of runners and their names.
// logger may be nil.
func NewFallbackRunner(runners []port.ToolRunner, names []string, logger Logger) *FallbackRunner {
	circuits := make([]*circuitState, len(runners))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackRunner{
		runners:  runners,
		circuits: circuits,
		names:    names,
		logger:   logger,
		now:      time.Now,
	}
}

func (f *FallbackRunner) Run(ctx context.Context, input port.ToolInput) (*port.ToolOutput, error) {
	now := f.now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	noteReset := func(resetAt time.Time) {
		if earliestReset.IsZero() || resetAt.Before(earliestReset) {
			earliestReset = resetAt
		}
	}

	for i, r := range f.runners {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.logger.Info("toolrunner.FallbackRunner: skipping provider, circuit open",
				zap.String("provider", f.names[i]), zap.Time("reset_at", resetAt))
			noteReset(resetAt)
			continue
		}

		out, err := r.Run(ctx, input)
		if err == nil {
			return out, nil
		}

		f.logger.Warn("toolrunner.FallbackRunner: provider failed",
			zap.String("provider", f.names[i]), zap.String("tool", string(input.Tool)), zap.Error(err))
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			noteReset(resetAt)
		} else {
			allRateLimited = false
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("all providers failed: %w", ctx.Err())
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := earliestReset.Sub(f.now())
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", errors.New("all providers rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}
