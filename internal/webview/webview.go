// Package webview implements the shell toolkit on top of the system web view.
// One process-wide event loop serves every window.
package webview

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	webview "github.com/webview/webview_go"

	"github.com/vpinfe/vpinfe/internal/shell"
)

// Toolkit creates web-view windows that share the first window's event loop.
type Toolkit struct {
	debug  bool
	logger *slog.Logger

	mu      sync.Mutex
	host    webview.WebView
	running bool
	quit    bool
}

var _ shell.Toolkit = (*Toolkit)(nil)

// New returns a toolkit. debug enables the web inspector.
func New(debug bool, logger *slog.Logger) *Toolkit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toolkit{debug: debug, logger: logger.With("component", "webview")}
}

// NewView opens a window sized to opts.Bounds. Must run on the main thread
// before Run.
func (t *Toolkit) NewView(opts shell.ViewOptions) (shell.View, error) {
	w := webview.New(t.debug)
	if w == nil {
		return nil, fmt.Errorf("failed to create web view for %s", opts.Name)
	}
	w.SetTitle(opts.Title)
	w.SetSize(opts.Bounds.Width, opts.Bounds.Height, webview.HintNone)
	for _, js := range opts.InitScripts {
		w.Init(js)
	}
	w.SetHtml(`<html><body style="margin:0;background:#000"></body></html>`)

	t.mu.Lock()
	if t.host == nil {
		t.host = w
	}
	t.mu.Unlock()

	return &view{name: opts.Name, w: w}, nil
}

// Run blocks on the event loop until Quit.
func (t *Toolkit) Run() {
	t.mu.Lock()
	host := t.host
	if host == nil || t.quit {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	host.Run()

	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

// Quit stops the event loop. Safe from any goroutine.
func (t *Toolkit) Quit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.quit {
		return
	}
	t.quit = true
	if t.host != nil && t.running {
		host := t.host
		host.Dispatch(host.Terminate)
	}
}

// Dispatch schedules fn on the UI thread.
func (t *Toolkit) Dispatch(fn func()) {
	t.mu.Lock()
	host := t.host
	t.mu.Unlock()
	if host == nil {
		t.logger.Warn("dispatch without a window; dropping")
		return
	}
	host.Dispatch(fn)
}

// After schedules fn on the UI thread once d has elapsed.
func (t *Toolkit) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { t.Dispatch(fn) })
}

type view struct {
	name string
	w    webview.WebView
	once sync.Once
}

func (v *view) Navigate(url string) {
	v.w.Navigate(url)
}

func (v *view) Reload() {
	v.w.Eval("window.location.reload()")
}

func (v *view) Eval(js string) {
	v.w.Eval(js)
}

func (v *view) Bind(name string, fn any) error {
	return v.w.Bind(name, fn)
}

// Dispatch runs fn on this window's UI thread.
func (v *view) Dispatch(fn func()) {
	v.w.Dispatch(fn)
}

func (v *view) Close() error {
	v.once.Do(v.w.Destroy)
	return nil
}
