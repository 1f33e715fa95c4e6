package shell

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vpinfe/vpinfe/internal/picker"
	"github.com/vpinfe/vpinfe/internal/platform"
)

type fakeView struct {
	opts      ViewOptions
	navigated []string
	evals     []string
	reloads   int
	closed    int
	bindings  map[string]any
	bindErr   error
}

func (v *fakeView) Navigate(url string) { v.navigated = append(v.navigated, url) }
func (v *fakeView) Reload()             { v.reloads++ }
func (v *fakeView) Eval(js string)      { v.evals = append(v.evals, js) }

func (v *fakeView) Bind(name string, fn any) error {
	if v.bindErr != nil {
		return v.bindErr
	}
	if v.bindings == nil {
		v.bindings = make(map[string]any)
	}
	v.bindings[name] = fn
	return nil
}

func (v *fakeView) Close() error {
	v.closed++
	return nil
}

func (v *fakeView) call(name string) {
	v.bindings[name].(func())()
}

type fakeToolkit struct {
	mu       sync.Mutex
	views    []*fakeView
	failFor  map[string]bool
	after    []func()
	delays   []time.Duration
	quit     chan struct{}
	quitOnce sync.Once
	ran      bool
}

func newFakeToolkit() *fakeToolkit {
	return &fakeToolkit{quit: make(chan struct{}), failFor: map[string]bool{}}
}

func (t *fakeToolkit) NewView(opts ViewOptions) (View, error) {
	if t.failFor[opts.Name] {
		return nil, fmt.Errorf("cannot create %s", opts.Name)
	}
	v := &fakeView{opts: opts}
	t.mu.Lock()
	t.views = append(t.views, v)
	t.mu.Unlock()
	return v, nil
}

func (t *fakeToolkit) Run() {
	t.mu.Lock()
	t.ran = true
	t.mu.Unlock()
	<-t.quit
}

func (t *fakeToolkit) Quit() {
	t.quitOnce.Do(func() { close(t.quit) })
}

func (t *fakeToolkit) Dispatch(fn func()) { fn() }

func (t *fakeToolkit) After(d time.Duration, fn func()) {
	t.delays = append(t.delays, d)
	t.after = append(t.after, fn)
}

func (t *fakeToolkit) runDeferred() {
	for _, fn := range t.after {
		fn()
	}
}

func (t *fakeToolkit) view(name string) *fakeView {
	for _, v := range t.views {
		if v.opts.Name == name {
			return v
		}
	}
	return nil
}

type fakeBackend struct {
	displays  []platform.Display
	err       error
	presented map[string]platform.Rect
	activated []string
	ids       map[platform.WindowID]string
}

func newFakeBackend(displays ...platform.Display) *fakeBackend {
	return &fakeBackend{
		displays:  displays,
		presented: map[string]platform.Rect{},
		ids:       map[platform.WindowID]string{},
	}
}

func (b *fakeBackend) Displays() ([]platform.Display, error) { return b.displays, b.err }

func (b *fakeBackend) FindWindow(title string) (platform.WindowID, error) {
	id := platform.WindowID(len(b.ids) + 1)
	for existing, t := range b.ids {
		if t == title {
			return existing, nil
		}
	}
	b.ids[id] = title
	return id, nil
}

func (b *fakeBackend) Present(id platform.WindowID, bounds platform.Rect) error {
	b.presented[b.ids[id]] = bounds
	return nil
}

func (b *fakeBackend) Activate(id platform.WindowID) error {
	b.activated = append(b.activated, b.ids[id])
	return nil
}

func (b *fakeBackend) Disconnect() {}

type fakeProber struct {
	ready bool
	urls  []string
}

func (p *fakeProber) Wait(url string, timeout time.Duration) bool {
	p.urls = append(p.urls, url)
	return p.ready
}

var errChooser = errors.New("no dialog in tests")

type fakeChooser struct{}

func (fakeChooser) Choose(picker.Mode, string) (string, error) { return "", errChooser }

func display(id, x, w, h int) platform.Display {
	return platform.Display{ID: id, Name: fmt.Sprintf("OUT-%d", id), Bounds: platform.Rect{X: x, Width: w, Height: h}}
}
