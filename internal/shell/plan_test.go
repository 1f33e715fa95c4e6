package shell

import (
	"strings"
	"testing"

	"github.com/vpinfe/vpinfe/internal/platform"
	"github.com/vpinfe/vpinfe/internal/settings"
)

func storeFrom(t *testing.T, ini string) *settings.Store {
	t.Helper()
	s, err := settings.Parse(strings.NewReader(ini))
	if err != nil {
		t.Fatalf("settings.Parse() error: %v", err)
	}
	return s
}

func names(ws []Window) string {
	var out []string
	for _, w := range ws {
		out = append(out, w.Name)
	}
	return strings.Join(out, ",")
}

func TestMonitorIndex_BooleanLookingValuesFallBackToZero(t *testing.T) {
	for _, raw := range []string{"False", "None", "True", "abc", "-2", "1.5"} {
		got, ok := monitorIndex(raw)
		if !ok {
			t.Fatalf("monitorIndex(%q) not configured, want monitor 0", raw)
		}
		if got.n != 0 || !got.warn {
			t.Fatalf("monitorIndex(%q) = %+v, want index 0 with warning", raw, got)
		}
	}
}

func TestMonitorIndex_BlankIsNotConfigured(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		if _, ok := monitorIndex(raw); ok {
			t.Fatalf("monitorIndex(%q) should be unconfigured", raw)
		}
	}
	if got, ok := monitorIndex(" 2 "); !ok || got.n != 2 || got.warn {
		t.Fatalf("monitorIndex(2) = %+v, %v", got, ok)
	}
}

func TestPlanWindows_SkipsMissingMonitor(t *testing.T) {
	store := storeFrom(t, "[Displays]\nbgscreenid = 1\ndmdscreenid = 5\ntablescreenid = 0\n")
	displays := []platform.Display{display(0, 0, 1920, 1080), display(1, 1920, 1280, 1024)}

	plan := PlanWindows(store, displays, "", nil)

	if got := names(plan.Windows); got != "bg,table" {
		t.Fatalf("windows = %q, want bg,table", got)
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0].Name != "dmd" {
		t.Fatalf("skipped = %+v, want dmd", plan.Skipped)
	}
	if plan.Windows[0].Bounds.X != 1920 {
		t.Fatalf("bg bounds = %+v, want monitor 1", plan.Windows[0].Bounds)
	}
}

func TestPlanWindows_NoMonitorsUsesDefaultGeometry(t *testing.T) {
	store := storeFrom(t, "[Displays]\nbgscreenid = 7\ntablescreenid = True\n")

	plan := PlanWindows(store, nil, "", nil)

	if got := names(plan.Windows); got != "bg,table" {
		t.Fatalf("windows = %q, want bg,table", got)
	}
	for _, w := range plan.Windows {
		if w.Bounds != platform.DefaultBounds() {
			t.Fatalf("%s bounds = %+v, want default", w.Name, w.Bounds)
		}
	}
}

func TestPlanWindows_URLsAndPorts(t *testing.T) {
	store := storeFrom(t, "[Displays]\ntablescreenid = 0\n[Network]\nthemeassetsport = 9000\nmanageruiport = 9001\n")

	plan := PlanWindows(store, nil, "http://10.0.0.5/", nil)

	if len(plan.Windows) != 1 {
		t.Fatalf("windows = %+v", plan.Windows)
	}
	w := plan.Windows[0]
	if w.URL != "http://10.0.0.5:9000/web/splash.html?window=table" {
		t.Fatalf("URL = %q", w.URL)
	}
	if w.ManagerURL() != "http://localhost:9001" {
		t.Fatalf("ManagerURL = %q", w.ManagerURL())
	}
	if w.Title() != "VPinFE - table" {
		t.Fatalf("Title = %q", w.Title())
	}
}

func TestPlanWindows_DefaultPorts(t *testing.T) {
	store := storeFrom(t, "[Displays]\nbgscreenid = 0\n")

	w := PlanWindows(store, nil, "", nil).Windows[0]
	if w.URL != "http://127.0.0.1:8000/web/splash.html?window=bg" {
		t.Fatalf("URL = %q", w.URL)
	}
	if w.ManagerPort != 8001 {
		t.Fatalf("ManagerPort = %d", w.ManagerPort)
	}
}
