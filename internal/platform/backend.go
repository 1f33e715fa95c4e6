package platform

import (
	"errors"
	"log/slog"
)

// ErrUnsupported is returned when no window-system backend is available.
var ErrUnsupported = errors.New("window system backend not available")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// DefaultBounds is the geometry used when no display could be enumerated.
func DefaultBounds() Rect {
	return Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	FindWindow(title string) (WindowID, error)
	Present(windowID WindowID, bounds Rect) error
	Activate(windowID WindowID) error
	Disconnect()
}

// EnumerateDisplays snapshots the attached displays in index order. Failure is
// logged and reported as no displays.
func EnumerateDisplays(b Backend, logger *slog.Logger) []Display {
	if logger == nil {
		logger = slog.Default()
	}
	if b == nil {
		logger.Warn("no display backend; using default geometry")
		return nil
	}
	displays, err := b.Displays()
	if err != nil {
		logger.Warn("display enumeration failed; using default geometry", "error", err)
		return nil
	}
	for i, d := range displays {
		logger.Debug("display", "index", i, "name", d.Name,
			"x", d.Bounds.X, "y", d.Bounds.Y, "width", d.Bounds.Width, "height", d.Bounds.Height)
	}
	return displays
}

// NullBackend is used when no window system is reachable.
type NullBackend struct{}

var _ Backend = NullBackend{}

func (NullBackend) Displays() ([]Display, error)        { return nil, ErrUnsupported }
func (NullBackend) FindWindow(string) (WindowID, error) { return 0, ErrUnsupported }
func (NullBackend) Present(WindowID, Rect) error        { return ErrUnsupported }
func (NullBackend) Activate(WindowID) error             { return ErrUnsupported }
func (NullBackend) Disconnect()                         {}
