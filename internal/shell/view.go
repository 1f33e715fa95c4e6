package shell

import (
	"time"

	"github.com/vpinfe/vpinfe/internal/platform"
)

// Toolkit is the embedded web-view event loop. Run blocks the calling thread;
// every other method may be called from any goroutine.
type Toolkit interface {
	NewView(opts ViewOptions) (View, error)
	Run()
	Quit()
	Dispatch(fn func())
	After(d time.Duration, fn func())
}

// ViewOptions describes a top-level web-view window.
type ViewOptions struct {
	Name        string
	Title       string
	Bounds      platform.Rect
	InitScripts []string
}

// View is one top-level web-view window. Methods other than Close must run
// on the UI thread.
type View interface {
	Navigate(url string)
	Reload()
	Eval(js string)
	Bind(name string, fn any) error
	Close() error
}

// Prober waits for an HTTP server to answer.
type Prober interface {
	Wait(url string, timeout time.Duration) bool
}
