// Package shell creates the frontend windows and drives their lifecycle.
package shell

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/vpinfe/vpinfe/internal/metrics"
	"github.com/vpinfe/vpinfe/internal/picker"
	"github.com/vpinfe/vpinfe/internal/platform"
	"github.com/vpinfe/vpinfe/internal/probe"
	"github.com/vpinfe/vpinfe/internal/settings"
)

// ErrNoWindows is returned when no frontend window could be created.
var ErrNoWindows = errors.New("no frontend windows created")

const (
	// DefaultLoadDelay defers the first navigation until the event loop runs.
	DefaultLoadDelay = 200 * time.Millisecond
)

// Options configures a Manager.
type Options struct {
	Toolkit Toolkit
	Backend platform.Backend
	Prober  Prober
	Bridge  *picker.Bridge
	Chooser picker.Chooser
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	LoadDelay    time.Duration
	ProbeTimeout time.Duration
}

// Manager owns the frontend windows. Window state is touched on the UI thread;
// the status accessors may be called from any goroutine.
type Manager struct {
	opts   Options
	logger *slog.Logger
	exit   *ExitFlag

	mu       sync.Mutex
	windows  []*managedWindow
	primary  *managedWindow
	launched bool
}

type managedWindow struct {
	Window
	view    View
	overlay *Overlay
	logger  *slog.Logger
}

func (w *managedWindow) reload() {
	w.logger.Info("reloading window")
	w.overlay.reset()
	w.view.Reload()
}

// WindowStatus is a read-only view of a tracked window.
type WindowStatus struct {
	Name    string        `json:"name"`
	URL     string        `json:"url"`
	Bounds  platform.Rect `json:"bounds"`
	Overlay string        `json:"overlay"`
	Primary bool          `json:"primary"`
}

// NewManager returns a Manager with defaults filled in.
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Backend == nil {
		opts.Backend = platform.NullBackend{}
	}
	if opts.Prober == nil {
		opts.Prober = probe.New(opts.Metrics)
	}
	if opts.LoadDelay == 0 {
		opts.LoadDelay = DefaultLoadDelay
	}
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = probe.DefaultTimeout
	}
	if opts.Chooser == nil {
		opts.Chooser = picker.NativeChooser{}
	}
	return &Manager{
		opts:   opts,
		logger: opts.Logger.With("component", "shell"),
		exit:   NewExitFlag(),
	}
}

// Exit returns the flag set when the shell is shutting down.
func (m *Manager) Exit() *ExitFlag {
	return m.exit
}

// LaunchAllWindows creates one window per configured display role. It returns
// ErrNoWindows, with the exit flag set, when nothing could be created.
func (m *Manager) LaunchAllWindows(store *settings.Store, baseURL string) error {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	assetsPort := store.Int(settings.SectionNetwork, "themeassetsport", settings.DefaultThemeAssetsPort)
	splash := SplashURL(baseURL, assetsPort, "")
	if !m.opts.Prober.Wait(splash, m.opts.ProbeTimeout) {
		m.logger.Warn("theme asset server not ready; loading anyway", "url", splash, "timeout", m.opts.ProbeTimeout)
	}

	displays := platform.EnumerateDisplays(m.opts.Backend, m.logger)
	plan := PlanWindows(store, displays, baseURL, m.logger)
	for _, s := range plan.Skipped {
		m.opts.Metrics.WindowSkipped(s.Name, s.Reason)
	}

	var created []*managedWindow
	for _, spec := range plan.Windows {
		w, err := m.createWindow(spec)
		if err != nil {
			m.logger.Error("failed to create window", "window", spec.Name, "error", err)
			m.opts.Metrics.WindowSkipped(spec.Name, "create_failed")
			continue
		}
		created = append(created, w)
		m.opts.Metrics.WindowCreated(spec.Name)
	}

	if len(created) == 0 {
		m.logger.Error("no windows were created; exiting")
		m.exit.Set()
		return ErrNoWindows
	}

	m.mu.Lock()
	m.windows = created
	m.primary = created[len(created)-1]
	m.launched = true
	m.mu.Unlock()

	m.opts.Toolkit.After(m.opts.LoadDelay, m.loadAll)
	return nil
}

func (m *Manager) createWindow(spec Window) (*managedWindow, error) {
	view, err := m.opts.Toolkit.NewView(ViewOptions{
		Name:        spec.Name,
		Title:       spec.Title(),
		Bounds:      spec.Bounds,
		InitScripts: initScripts(),
	})
	if err != nil {
		return nil, err
	}
	logger := m.logger.With("window", spec.Name)
	w := &managedWindow{
		Window:  spec,
		view:    view,
		overlay: newOverlay(view, spec.ManagerURL(), logger, m.opts.Metrics),
		logger:  logger,
	}
	if err := m.bindWindow(w); err != nil {
		view.Close()
		return nil, fmt.Errorf("failed to bind %s: %w", spec.Name, err)
	}
	logger.Info("window created", "url", spec.URL,
		"x", spec.Bounds.X, "y", spec.Bounds.Y, "width", spec.Bounds.Width, "height", spec.Bounds.Height)
	return w, nil
}

// loadAll runs on the UI thread once the event loop has started.
func (m *Manager) loadAll() {
	m.mu.Lock()
	windows := append([]*managedWindow(nil), m.windows...)
	primary := m.primary
	m.mu.Unlock()

	if m.exit.IsSet() {
		return
	}

	for _, w := range windows {
		w.view.Navigate(w.URL)
		if err := m.present(w); err != nil {
			w.logger.Warn("failed to place window on its monitor", "error", err)
		}
	}

	if primary == nil || m.opts.Bridge == nil {
		return
	}
	m.opts.Bridge.Attach(m.opts.Toolkit, m.opts.Chooser)
	if id, err := m.opts.Backend.FindWindow(primary.Title()); err == nil {
		if err := m.opts.Backend.Activate(id); err != nil {
			primary.logger.Warn("failed to focus window", "error", err)
		}
	}
	primary.logger.Info("dialog bridge attached")
}

func (m *Manager) present(w *managedWindow) error {
	id, err := m.opts.Backend.FindWindow(w.Title())
	if err != nil {
		return err
	}
	return m.opts.Backend.Present(id, w.Bounds)
}

// WaitForExit runs the event loop on the calling thread until quit, then
// closes every window. It returns immediately when no window was launched.
func (m *Manager) WaitForExit() {
	m.mu.Lock()
	launched := m.launched
	m.mu.Unlock()
	if !launched {
		return
	}
	if !m.exit.IsSet() {
		m.runLoop()
	}
	m.TerminateAll()
}

func (m *Manager) runLoop() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case sig := <-sigCh:
			m.logger.Info("signal received; quitting", "signal", sig.String())
			m.RequestQuit()
		case <-stop:
		}
	}()

	m.opts.Toolkit.Run()
}

// RequestQuit stops the event loop from any goroutine.
func (m *Manager) RequestQuit() {
	m.exit.Set()
	m.opts.Toolkit.Quit()
}

// TerminateAll closes every tracked window and sets the exit flag. It is
// idempotent. Call it on the UI thread or after the event loop stopped.
func (m *Manager) TerminateAll() {
	m.mu.Lock()
	windows := m.windows
	m.windows = nil
	m.primary = nil
	m.mu.Unlock()

	for _, w := range windows {
		if err := w.view.Close(); err != nil {
			w.logger.Warn("failed to close window", "error", err)
		}
	}
	if len(windows) > 0 {
		m.logger.Info("windows closed", "count", len(windows))
		m.opts.Metrics.WindowsClosed()
	}
	m.exit.Set()
}

// IsRunning reports whether windows are open and no exit was requested.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows) > 0 && !m.exit.IsSet()
}

// GetProcess always returns nil; windows live in this process.
func (m *Manager) GetProcess(name string) *os.Process {
	return nil
}

// Windows reports the tracked windows in creation order.
func (m *Manager) Windows() []WindowStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]WindowStatus, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, WindowStatus{
			Name:    w.Name,
			URL:     w.URL,
			Bounds:  w.Bounds,
			Overlay: w.overlay.State().String(),
			Primary: w == m.primary,
		})
	}
	return out
}

// Reload reloads every window on the UI thread.
func (m *Manager) Reload() {
	m.opts.Toolkit.Dispatch(func() {
		m.mu.Lock()
		windows := append([]*managedWindow(nil), m.windows...)
		m.mu.Unlock()
		for _, w := range windows {
			w.reload()
		}
	})
}

// OpenManager opens the manager overlay on the primary window.
func (m *Manager) OpenManager() error {
	m.mu.Lock()
	primary := m.primary
	m.mu.Unlock()
	if primary == nil {
		return ErrNoWindows
	}
	m.opts.Toolkit.Dispatch(primary.overlay.Open)
	return nil
}
