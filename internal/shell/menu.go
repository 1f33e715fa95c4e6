package shell

import (
	_ "embed"
	"log/slog"
	"strings"
)

//go:embed scripts/menu.js
var menuScript string

//go:embed scripts/console.js
var consoleScript string

//go:embed scripts/overlay.js
var overlayScript string

// Functions the injected scripts call back into.
const (
	bindReload        = "vpinfeReload"
	bindOpenManager   = "vpinfeOpenManager"
	bindQuit          = "vpinfeQuit"
	bindCloseManager  = "vpinfeCloseManager"
	bindReloadManager = "vpinfeReloadManager"
	bindConsole       = "vpinfeConsole"
)

// initScripts run in every frontend window before page scripts.
func initScripts() []string {
	return []string{consoleScript, overlayScript, menuScript}
}

// bindWindow wires the context menu, overlay and console forwarding of w.
func (m *Manager) bindWindow(w *managedWindow) error {
	bindings := map[string]any{
		bindReload:        w.reload,
		bindOpenManager:   w.overlay.Open,
		bindCloseManager:  w.overlay.Close,
		bindReloadManager: w.overlay.Reload,
		bindQuit: func() {
			w.logger.Info("quit requested from context menu")
			m.RequestQuit()
		},
		bindConsole: func(level, message string) {
			logConsole(w.logger, level, message)
		},
	}
	for _, name := range []string{bindReload, bindOpenManager, bindCloseManager, bindReloadManager, bindQuit, bindConsole} {
		if err := w.view.Bind(name, bindings[name]); err != nil {
			return err
		}
	}
	return nil
}

// logConsole forwards a page console message with its level name.
func logConsole(logger *slog.Logger, level, message string) {
	level = strings.ToUpper(level)
	attrs := []any{"source", "console", "level_name", level}
	switch level {
	case "ERROR":
		logger.Error(message, attrs...)
	case "WARN", "WARNING":
		logger.Warn(message, attrs...)
	default:
		logger.Info(message, attrs...)
	}
}
