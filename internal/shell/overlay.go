package shell

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/vpinfe/vpinfe/internal/metrics"
)

// OverlayState is the visibility of a window's manager overlay.
type OverlayState int

const (
	OverlayHidden OverlayState = iota
	OverlayVisible
)

func (s OverlayState) String() string {
	if s == OverlayVisible {
		return "visible"
	}
	return "hidden"
}

// Overlay is the modal manager panel shown above a frontend window. Its
// methods run on the UI thread.
type Overlay struct {
	mu    sync.Mutex
	state OverlayState

	view    View
	url     string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func newOverlay(view View, url string, logger *slog.Logger, m *metrics.Metrics) *Overlay {
	return &Overlay{view: view, url: url, logger: logger, metrics: m}
}

// State returns the current visibility.
func (o *Overlay) State() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Open shows the overlay, or raises and focuses it when already visible.
func (o *Overlay) Open() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.metrics.OverlayOpened()
	if o.state == OverlayVisible {
		o.view.Eval("window.vpinfeOverlay.focus()")
		return
	}
	url, _ := json.Marshal(o.url)
	o.view.Eval("window.vpinfeOverlay.open(" + string(url) + ")")
	o.state = OverlayVisible
	o.logger.Info("manager overlay opened", "url", o.url)
}

// Close hides the overlay.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == OverlayHidden {
		return
	}
	o.view.Eval("window.vpinfeOverlay.close()")
	o.state = OverlayHidden
	o.logger.Info("manager overlay closed")
}

// Reload reloads the manager page when the overlay is visible.
func (o *Overlay) Reload() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == OverlayHidden {
		return
	}
	o.view.Eval("window.vpinfeOverlay.reload()")
}

// reset forgets the overlay after the host page navigated away.
func (o *Overlay) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = OverlayHidden
}
