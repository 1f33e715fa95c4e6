package shell

import (
	"log/slog"
	"strings"
	"testing"
)

func TestOverlay_OpenTwiceKeepsOneInstance(t *testing.T) {
	v := &fakeView{}
	o := newOverlay(v, "http://localhost:8001", slog.Default(), nil)

	o.Open()
	o.Open()

	if o.State() != OverlayVisible {
		t.Fatalf("state = %v, want visible", o.State())
	}
	var opens, focuses int
	for _, js := range v.evals {
		switch {
		case strings.HasPrefix(js, "window.vpinfeOverlay.open("):
			opens++
		case js == "window.vpinfeOverlay.focus()":
			focuses++
		}
	}
	if opens != 1 || focuses != 1 {
		t.Fatalf("opens = %d, focuses = %d; want 1 and 1 (evals %v)", opens, focuses, v.evals)
	}
	if !strings.Contains(v.evals[0], `"http://localhost:8001"`) {
		t.Fatalf("open eval = %q, missing manager URL", v.evals[0])
	}
}

func TestOverlay_CloseAndReload(t *testing.T) {
	v := &fakeView{}
	o := newOverlay(v, "http://localhost:8001", slog.Default(), nil)

	o.Close()
	o.Reload()
	if len(v.evals) != 0 {
		t.Fatalf("hidden overlay evaluated %v", v.evals)
	}

	o.Open()
	o.Reload()
	o.Close()
	o.Close()

	want := []string{"", "window.vpinfeOverlay.reload()", "window.vpinfeOverlay.close()"}
	if len(v.evals) != len(want) {
		t.Fatalf("evals = %v", v.evals)
	}
	for i := 1; i < len(want); i++ {
		if v.evals[i] != want[i] {
			t.Fatalf("evals[%d] = %q, want %q", i, v.evals[i], want[i])
		}
	}
	if o.State() != OverlayHidden {
		t.Fatalf("state = %v, want hidden", o.State())
	}
}

func TestContextMenuBindings(t *testing.T) {
	h := newHarness()
	store := storeFrom(t, "[Displays]\ntablescreenid = 0\n")
	if err := h.m.LaunchAllWindows(store, ""); err != nil {
		t.Fatalf("LaunchAllWindows() error: %v", err)
	}
	v := h.tk.view("table")

	for _, name := range []string{bindReload, bindOpenManager, bindCloseManager, bindReloadManager, bindQuit, bindConsole} {
		if _, ok := v.bindings[name]; !ok {
			t.Fatalf("binding %s missing", name)
		}
	}

	v.call(bindOpenManager)
	v.call(bindOpenManager)
	if got := h.m.Windows()[0].Overlay; got != "visible" {
		t.Fatalf("overlay = %q", got)
	}
	v.call(bindCloseManager)
	if got := h.m.Windows()[0].Overlay; got != "hidden" {
		t.Fatalf("overlay = %q after close", got)
	}

	v.bindings[bindConsole].(func(string, string))("warn", "theme asset missing")
}

func TestInitScriptsEmbedded(t *testing.T) {
	scripts := strings.Join(initScripts(), "\n")
	for _, want := range []string{"Reload Window", "Open Manager", "Quit VPinFE", "#F0F0F0", "#0078D7", bindConsole, bindCloseManager} {
		if !strings.Contains(scripts, want) {
			t.Fatalf("init scripts missing %q", want)
		}
	}
}

func TestExitFlag(t *testing.T) {
	f := NewExitFlag()
	if f.IsSet() {
		t.Fatal("new flag is set")
	}
	f.Set()
	f.Set()
	if !f.IsSet() {
		t.Fatal("flag not set")
	}
	select {
	case <-f.Done():
	default:
		t.Fatal("Done() not closed")
	}
}
