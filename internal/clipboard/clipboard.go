// Package clipboard provides port.Clipboard sinks.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// System writes to the operating system clipboard.
type System struct{}

// NewSystem returns a System clipboard, or an error when the platform has no
// clipboard utility available (e.g. a headless Linux box without xclip/xsel).
func NewSystem() (*System, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("clipboard.NewSystem: system clipboard is not supported on this platform")
	}
	return &System{}, nil
}

func (s *System) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard.System.WriteText: %w", err)
	}
	return nil
}

// Buffer captures copied text in memory. The HTTP API uses it to hand the copied
// text back to the browser, which owns the real clipboard.
type Buffer struct {
	mu   sync.Mutex
	text string
	set  bool
}

func (b *Buffer) WriteText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	b.set = true
	return nil
}

// Text returns the last copied text and whether anything was copied.
func (b *Buffer) Text() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, b.set
}
