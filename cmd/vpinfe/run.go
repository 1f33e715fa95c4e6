package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/vpinfe/vpinfe/internal/ipc"
	"github.com/vpinfe/vpinfe/internal/logging"
	"github.com/vpinfe/vpinfe/internal/managerui"
	"github.com/vpinfe/vpinfe/internal/metrics"
	"github.com/vpinfe/vpinfe/internal/picker"
	"github.com/vpinfe/vpinfe/internal/platform"
	"github.com/vpinfe/vpinfe/internal/probe"
	"github.com/vpinfe/vpinfe/internal/settings"
	"github.com/vpinfe/vpinfe/internal/shell"
	"github.com/vpinfe/vpinfe/internal/webview"
)

const shutdownTimeout = 5 * time.Second

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configDir := fs.String("config-dir", "", "Configuration directory (default: $VPINFE_CONFIG_DIR or ~/.config/vpinfe)")
	baseURL := fs.String("base-url", shell.DefaultBaseURL, "Host serving the theme assets")
	logLevel := fs.String("log-level", "", "Override the configured log level")
	debug := fs.Bool("debug", false, "Enable web inspector in frontend windows")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vpinfe run [--config-dir DIR] [--base-url URL] [--log-level LEVEL] [--debug]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open one fullscreen window per configured display and serve the configuration panel.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	paths, store, err := loadSettings(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := setupLogging(store, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logging.Close()
	logger := logging.Component("main")

	if err := ensureSettingsFile(store); err != nil {
		logger.Warn("failed to write default settings", "path", store.Path(), "error", err)
	}

	m := metrics.New()
	bridge := picker.NewBridge(slog.Default(), m)

	backend, err := platform.New()
	if err != nil {
		logger.Warn("window placement unavailable", "error", err)
	}
	defer backend.Disconnect()

	mgr := shell.NewManager(shell.Options{
		Toolkit: webview.New(*debug, slog.Default()),
		Backend: backend,
		Prober:  probe.New(m),
		Bridge:  bridge,
		Chooser: picker.NativeChooser{StartDir: paths.Dir},
		Metrics: m,
		Logger:  slog.Default(),
	})

	var restart atomic.Bool
	managerPort := store.Int(settings.SectionNetwork, "manageruiport", settings.DefaultManagerUIPort)
	ui, err := managerui.New(managerui.Config{
		SettingsPath: paths.Settings,
		Library:      managerui.DirLibrary{Paths: paths},
		Picker:       bridge,
		Metrics:      m,
		Logger:       slog.Default(),
		Restart: func() error {
			restart.Store(true)
			mgr.RequestQuit()
			return nil
		},
	})
	if err != nil {
		logger.Error("failed to create configuration panel", "error", err)
		return 1
	}
	srv := startHTTP(fmt.Sprintf("127.0.0.1:%d", managerPort), ui.Router(), logger)

	ipcServer, err := ipc.NewServer(mgr, backend, ipc.ServerOptions{
		ManagerURL: fmt.Sprintf("http://localhost:%d", managerPort),
		Metrics:    m,
		Logger:     slog.Default(),
	})
	if err == nil {
		err = ipcServer.Start()
	}
	if err != nil {
		logger.Warn("remote control unavailable", "error", err)
		ipcServer = nil
	}

	launchErr := mgr.LaunchAllWindows(store, *baseURL)
	if launchErr == nil {
		mgr.WaitForExit()
	}
	shutdownHTTP(srv, logger)
	// Release the socket before a restarted copy binds it.
	if ipcServer != nil {
		ipcServer.Stop()
	}

	if errors.Is(launchErr, shell.ErrNoWindows) {
		return 1
	}
	if restart.Load() {
		return restartSelf(logger)
	}
	logger.Info("vpinfe exited")
	return 0
}

func runManager(args []string) int {
	fs := flag.NewFlagSet("manager", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configDir := fs.String("config-dir", "", "Configuration directory (default: $VPINFE_CONFIG_DIR or ~/.config/vpinfe)")
	addr := fs.String("addr", "", "Listen address (default: 127.0.0.1:{manageruiport})")
	logLevel := fs.String("log-level", "", "Override the configured log level")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vpinfe manager [--config-dir DIR] [--addr HOST:PORT] [--log-level LEVEL]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Serve the configuration panel without opening frontend windows.")
		fmt.Fprintln(os.Stderr, "File and folder pickers are unavailable in this mode.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	paths, store, err := loadSettings(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := setupLogging(store, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logging.Close()
	logger := logging.Component("main")

	listen := *addr
	if listen == "" {
		port := store.Int(settings.SectionNetwork, "manageruiport", settings.DefaultManagerUIPort)
		listen = fmt.Sprintf("127.0.0.1:%d", port)
	}

	m := metrics.New()
	ui, err := managerui.New(managerui.Config{
		SettingsPath: paths.Settings,
		Library:      managerui.DirLibrary{Paths: paths},
		Picker:       picker.NewBridge(slog.Default(), m),
		Metrics:      m,
		Logger:       slog.Default(),
	})
	if err != nil {
		logger.Error("failed to create configuration panel", "error", err)
		return 1
	}

	srv := &http.Server{Addr: listen, Handler: ui.Router(), ReadHeaderTimeout: 10 * time.Second}
	logger.Info("configuration panel listening", "addr", listen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("configuration panel failed", "error", err)
		return 1
	}
	return 0
}

// loadSettings resolves the configuration directory and reads the settings
// file, falling back to first-run defaults.
func loadSettings(configDir string) (settings.Paths, *settings.Store, error) {
	paths, err := resolvePaths(configDir)
	if err != nil {
		return settings.Paths{}, nil, err
	}
	store, err := settings.LoadOrDefault(paths.Settings)
	if err != nil {
		return settings.Paths{}, nil, err
	}
	return paths, store, nil
}

// ensureSettingsFile writes the store when its file does not exist yet.
func ensureSettingsFile(store *settings.Store) error {
	if _, err := os.Stat(store.Path()); err == nil || !os.IsNotExist(err) {
		return nil
	}
	return store.Save()
}

func setupLogging(store *settings.Store, levelOverride string) error {
	cfg := logging.FromSettings(store)
	if levelOverride != "" {
		cfg.Level = levelOverride
	}
	if err := logging.Setup(cfg); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	return nil
}

func startHTTP(addr string, h http.Handler, logger *slog.Logger) *http.Server {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info("configuration panel listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("configuration panel failed", "addr", addr, "error", err)
		}
	}()
	return srv
}

func shutdownHTTP(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("configuration panel shutdown", "error", err)
	}
}

// restartSelf starts a fresh copy of this process with the same arguments.
func restartSelf(logger *slog.Logger) int {
	exe, err := os.Executable()
	if err != nil {
		logger.Error("restart failed: cannot find executable", "error", err)
		return 1
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		logger.Error("restart failed", "error", err)
		return 1
	}
	logger.Info("restarted", "pid", cmd.Process.Pid)
	return 0
}
