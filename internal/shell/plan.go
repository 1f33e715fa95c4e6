package shell

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vpinfe/vpinfe/internal/platform"
	"github.com/vpinfe/vpinfe/internal/settings"
)

// DefaultBaseURL is the host the theme assets are served from.
const DefaultBaseURL = "http://127.0.0.1"

// Logical window names, in creation order.
const (
	WindowBackground = "bg"
	WindowDMD        = "dmd"
	WindowTable      = "table"
)

// Role pairs a window name with the [Displays] key holding its monitor index.
type Role struct {
	Name string
	Key  string
}

var roles = []Role{
	{WindowBackground, "bgscreenid"},
	{WindowDMD, "dmdscreenid"},
	{WindowTable, "tablescreenid"},
}

// Roles returns the window roles in creation order.
func Roles() []Role {
	return append([]Role(nil), roles...)
}

// Window describes one frontend window to create.
type Window struct {
	Name        string
	URL         string
	Bounds      platform.Rect
	ManagerPort int
}

// Title is the native window title.
func (w Window) Title() string {
	return "VPinFE - " + w.Name
}

// ManagerURL is the configuration UI loaded into the overlay.
func (w Window) ManagerURL() string {
	return fmt.Sprintf("http://localhost:%d", w.ManagerPort)
}

// Skip records a configured window that will not be created.
type Skip struct {
	Name   string
	Reason string
}

// Plan is the outcome of matching the [Displays] settings to monitors.
type Plan struct {
	Windows []Window
	Skipped []Skip
}

// SplashURL returns the splash page for a window name, or the bare page when
// name is empty.
func SplashURL(baseURL string, port int, name string) string {
	u := fmt.Sprintf("%s:%d/web/splash.html", strings.TrimRight(baseURL, "/"), port)
	if name != "" {
		u += "?window=" + name
	}
	return u
}

// PlanWindows decides which windows to create and where. With no displays
// every window gets platform.DefaultBounds.
func PlanWindows(store *settings.Store, displays []platform.Display, baseURL string, logger *slog.Logger) Plan {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	assetsPort := store.Int(settings.SectionNetwork, "themeassetsport", settings.DefaultThemeAssetsPort)
	managerPort := store.Int(settings.SectionNetwork, "manageruiport", settings.DefaultManagerUIPort)

	var plan Plan
	for _, r := range roles {
		raw := store.Value(settings.SectionDisplays, r.Key, "")
		index, ok := monitorIndex(raw)
		if !ok {
			continue
		}
		if index.warn {
			logger.Warn("invalid monitor index; using monitor 0", "window", r.Name, "key", r.Key, "value", raw)
		}

		bounds := platform.DefaultBounds()
		if len(displays) > 0 {
			if index.n >= len(displays) {
				logger.Warn("monitor not present; skipping window",
					"window", r.Name, "monitor", index.n, "monitors", len(displays))
				plan.Skipped = append(plan.Skipped, Skip{Name: r.Name, Reason: "monitor_missing"})
				continue
			}
			bounds = displays[index.n].Bounds
		}

		plan.Windows = append(plan.Windows, Window{
			Name:        r.Name,
			URL:         SplashURL(baseURL, assetsPort, r.Name),
			Bounds:      bounds,
			ManagerPort: managerPort,
		})
	}
	return plan
}

type parsedIndex struct {
	n    int
	warn bool
}

// monitorIndex sanitises a [Displays] value. Blank means not configured.
// Boolean-like and non-numeric values fall back to monitor 0.
func monitorIndex(raw string) (parsedIndex, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return parsedIndex{}, false
	}
	switch v {
	case "False", "None", "True":
		return parsedIndex{warn: true}, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return parsedIndex{warn: true}, true
	}
	return parsedIndex{n: n}, true
}

// ParseMonitorIndex returns the monitor a [Displays] value selects, applying
// the same fallbacks as window planning.
func ParseMonitorIndex(raw string) (int, bool) {
	idx, ok := monitorIndex(raw)
	return idx.n, ok
}
