// Package managerui serves the web configuration panel for the settings file.
package managerui

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vpinfe/vpinfe/internal/metrics"
	"github.com/vpinfe/vpinfe/internal/picker"
	"github.com/vpinfe/vpinfe/internal/settings"
)

//go:embed templates/panel.html
var panelTemplate string

// Picker opens native file and folder choosers for the panel.
type Picker interface {
	Ready() bool
	Pick(ctx context.Context, mode picker.Mode) (string, error)
}

// Config configures a Server.
type Config struct {
	SettingsPath string
	Library      Library
	Picker       Picker
	Metrics      *metrics.Metrics
	Logger       *slog.Logger

	// Restart, when set, is offered after a successful save.
	Restart func() error
}

// Server is the configuration panel HTTP server.
type Server struct {
	cfg    Config
	logger *slog.Logger
	tmpl   *template.Template

	// mu serialises access to the edit session.
	mu      sync.Mutex
	session *settings.Store
}

// New creates a panel server.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	tmpl, err := template.New("panel").Parse(panelTemplate)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "managerui"),
		tmpl:   tmpl,
	}, nil
}

// Router returns the HTTP handler with all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.cfg.Metrics.Handler())

	// The native dialog stays open as long as the user needs.
	r.Post("/api/pick", s.handlePick)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/", s.handlePanel)
		r.Get("/api/settings", s.handleGetSettings)
		r.Post("/api/settings", s.handleSaveSettings)
		r.Post("/api/restart", s.handleRestart)
	})

	return r
}

type panelData struct {
	Form           Form
	RestartEnabled bool
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	form, err := s.openSession()
	if err != nil {
		s.logger.Error("failed to load settings", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, panelData{Form: form, RestartEnabled: s.cfg.Restart != nil}); err != nil {
		s.logger.Error("failed to render panel", "error", err)
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	form, err := s.openSession()
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, form)
}

// openSession re-reads the settings file and makes it the edit session.
func (s *Server) openSession() (Form, error) {
	store, err := settings.LoadOrDefault(s.cfg.SettingsPath)
	if err != nil {
		return Form{}, err
	}
	s.mu.Lock()
	s.session = store
	s.mu.Unlock()
	return BuildForm(store, s.cfg.Library, s.logger), nil
}

// SaveResponse is returned by a successful save.
type SaveResponse struct {
	Message          string `json:"message"`
	RestartAvailable bool   `json:"restart_available"`
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var edits Edits
	if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	err := s.save(edits)
	s.cfg.Metrics.SettingsSaved(err)
	if err != nil {
		s.logger.Error("failed to save settings", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.logger.Info("configuration saved", "path", s.cfg.SettingsPath)
	s.writeJSON(w, http.StatusOK, SaveResponse{
		Message:          "Configuration Saved",
		RestartAvailable: s.cfg.Restart != nil,
	})
}

func (s *Server) save(edits Edits) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		store, err := settings.LoadOrDefault(s.cfg.SettingsPath)
		if err != nil {
			return err
		}
		s.session = store
	}
	snap, err := edits.Snapshot(s.session)
	if err != nil {
		return err
	}
	s.session.Apply(snap)
	return s.session.Save()
}

type pickRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	mode, err := picker.ParseMode(req.Mode)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if s.cfg.Picker == nil || !s.cfg.Picker.Ready() {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": picker.ErrNotReady.Error()})
		return
	}

	path, err := s.cfg.Picker.Pick(r.Context(), mode)
	switch {
	case errors.Is(err, picker.ErrNotReady):
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case err != nil:
		s.logger.Warn("picker request abandoned", "mode", string(mode), "error", err)
		s.writeJSON(w, http.StatusRequestTimeout, map[string]string{"error": err.Error()})
	default:
		s.writeJSON(w, http.StatusOK, map[string]string{"path": path})
	}
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Restart == nil {
		s.writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "restart not available"})
		return
	}
	if err := s.cfg.Restart(); err != nil {
		s.logger.Error("restart failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.logger.Info("restart requested from manager UI")
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "restarting"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
