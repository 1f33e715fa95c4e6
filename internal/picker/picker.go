// Package picker bridges web UI requests to the native file and folder
// choosers, which must run on the UI thread.
package picker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/vpinfe/vpinfe/internal/metrics"
)

// Mode selects the kind of chooser.
type Mode string

const (
	ModeFile   Mode = "file"
	ModeFolder Mode = "folder"
)

// Title returns the chooser window title for m.
func (m Mode) Title() string {
	if m == ModeFolder {
		return "Select Directory"
	}
	return "Select File"
}

// ParseMode converts a request string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFile:
		return ModeFile, nil
	case ModeFolder, "dir", "directory":
		return ModeFolder, nil
	default:
		return "", fmt.Errorf("unknown picker mode %q", s)
	}
}

// ErrNotReady is returned when a request arrives before the bridge is
// attached to a window.
var ErrNotReady = errors.New("dialog bridge not attached")

// Chooser shows a modal native dialog. Cancel returns "" and a nil error.
type Chooser interface {
	Choose(mode Mode, title string) (string, error)
}

// Dispatcher schedules work on the UI thread.
type Dispatcher interface {
	Dispatch(fn func())
}

// Bridge runs dialog requests on the UI thread and hands the chosen path back
// exactly once.
type Bridge struct {
	mu         sync.RWMutex
	dispatcher Dispatcher
	chooser    Chooser

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewBridge returns an unattached bridge.
func NewBridge(logger *slog.Logger, m *metrics.Metrics) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{logger: logger.With("component", "picker"), metrics: m}
}

// Attach binds the bridge to the UI thread of the primary window.
func (b *Bridge) Attach(d Dispatcher, c Chooser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatcher = d
	b.chooser = c
}

// Ready reports whether Attach has been called.
func (b *Bridge) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dispatcher != nil && b.chooser != nil
}

// Request shows a chooser for mode on the UI thread and calls handback with
// the chosen path, or "" on cancel or failure. When the bridge is not attached
// it returns ErrNotReady and handback is never called.
func (b *Bridge) Request(mode Mode, handback func(path string)) error {
	b.mu.RLock()
	d, c := b.dispatcher, b.chooser
	b.mu.RUnlock()

	if d == nil || c == nil {
		b.logger.Error("dialog requested before bridge was attached", "mode", string(mode))
		b.metrics.DialogRequested(string(mode), "not_ready")
		return ErrNotReady
	}

	d.Dispatch(func() {
		handback(b.choose(c, mode))
	})
	return nil
}

// Pick is the blocking form of Request. Cancelling ctx abandons the wait; the
// dialog itself stays open until the user closes it.
func (b *Bridge) Pick(ctx context.Context, mode Mode) (string, error) {
	done := make(chan string, 1)
	if err := b.Request(mode, func(path string) { done <- path }); err != nil {
		return "", err
	}
	select {
	case path := <-done:
		return path, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *Bridge) choose(c Chooser, mode Mode) (path string) {
	outcome := "chosen"
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("dialog panicked", "mode", string(mode), "panic", r)
			path, outcome = "", "error"
		}
		b.metrics.DialogRequested(string(mode), outcome)
	}()

	path, err := c.Choose(mode, mode.Title())
	if err != nil {
		b.logger.Error("dialog failed", "mode", string(mode), "error", err)
		outcome = "error"
		return ""
	}
	if path == "" {
		outcome = "cancelled"
	}
	return path
}
