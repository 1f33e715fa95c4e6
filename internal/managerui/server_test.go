package managerui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpinfe/vpinfe/internal/metrics"
	"github.com/vpinfe/vpinfe/internal/picker"
	"github.com/vpinfe/vpinfe/internal/settings"
)

const panelINI = `[Settings]
vpxbinpath = /opt/vpx/VPinballX
tablerootdir = /tables
theme = carousel

[Logger]
console = true

[VPSdb]
cache = 1
`

type stubPicker struct {
	ready bool
	path  string
	mode  picker.Mode
}

func (p *stubPicker) Ready() bool { return p.ready }

func (p *stubPicker) Pick(ctx context.Context, mode picker.Mode) (string, error) {
	p.mode = mode
	return p.path, nil
}

func newTestServer(t *testing.T, cfg Config) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vpinfe.ini")
	require.NoError(t, os.WriteFile(path, []byte(panelINI), 0644))

	cfg.SettingsPath = path
	if cfg.Library == nil {
		cfg.Library = DirLibrary{Paths: settings.PathsIn(dir)}
	}
	s, err := New(cfg)
	require.NoError(t, err)
	return s, path
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestPanelRendersVisibleSections(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	w := do(t, s.Router(), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-tab="Settings"`)
	assert.Contains(t, body, `data-tab="Logger"`)
	assert.NotContains(t, body, `data-tab="VPSdb"`)
	assert.Contains(t, body, "VPX Executable Path")
	assert.Contains(t, body, `data-pick="folder"`)
	assert.Contains(t, body, `type="checkbox"`)
}

func TestSaveRoundTrip(t *testing.T) {
	m := metrics.New()
	s, path := newTestServer(t, Config{Metrics: m})
	h := s.Router()

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", "").Code)

	w := do(t, h, http.MethodPost, "/api/settings",
		`{"Settings":{"tablerootdir":"/mnt/tables","theme":"slider"},"Logger":{"console":false}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Configuration Saved", resp.Message)
	assert.False(t, resp.RestartAvailable)

	reopened, err := settings.Load(path)
	require.NoError(t, err)
	v, _ := reopened.Get("Settings", "tablerootdir")
	assert.Equal(t, "/mnt/tables", v)
	v, _ = reopened.Get("Logger", "console")
	assert.Equal(t, "false", v)
	v, _ = reopened.Get("VPSdb", "cache")
	assert.Equal(t, "1", v, "ignored sections must survive a save")
}

func TestSaveOverwritesExternalEdits(t *testing.T) {
	s, path := newTestServer(t, Config{})
	h := s.Router()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", "").Code)

	external, err := settings.Load(path)
	require.NoError(t, err)
	external.Set("Settings", "theme", "external")
	require.NoError(t, external.Save())

	w := do(t, h, http.MethodPost, "/api/settings", `{"Settings":{"theme":"carousel"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	reopened, err := settings.Load(path)
	require.NoError(t, err)
	v, _ := reopened.Get("Settings", "theme")
	assert.Equal(t, "carousel", v)
}

func TestSaveRejectsBadJSON(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	w := do(t, s.Router(), http.MethodPost, "/api/settings", `{"Settings":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveWriteErrorReturns500(t *testing.T) {
	s, path := newTestServer(t, Config{})
	h := s.Router()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", "").Code)

	// Replace the file with a directory so the write fails.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))

	w := do(t, h, http.MethodPost, "/api/settings", `{"Settings":{"theme":"x"}}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestGetSettingsJSON(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	w := do(t, s.Router(), http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var form Form
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &form))
	require.Len(t, form.Sections, 2)
	assert.Equal(t, KindFilePicker, form.Sections[0].Fields[0].Kind)
	assert.Equal(t, []string{"carousel"}, form.Sections[0].Fields[2].Options)
}

func TestPick(t *testing.T) {
	p := &stubPicker{path: "/roms"}
	s, _ := newTestServer(t, Config{Picker: p})
	h := s.Router()

	w := do(t, h, http.MethodPost, "/api/pick", `{"mode":"folder"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	p.ready = true
	w = do(t, h, http.MethodPost, "/api/pick", `{"mode":"folder"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"path":"/roms"}`, w.Body.String())
	assert.Equal(t, picker.ModeFolder, p.mode)

	w = do(t, h, http.MethodPost, "/api/pick", `{"mode":"image"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPickWithUnattachedBridge(t *testing.T) {
	s, _ := newTestServer(t, Config{Picker: picker.NewBridge(nil, nil)})
	w := do(t, s.Router(), http.MethodPost, "/api/pick", `{"mode":"file"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRestart(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	assert.Equal(t, http.StatusNotImplemented, do(t, s.Router(), http.MethodPost, "/api/restart", "").Code)

	restarted := false
	s, _ = newTestServer(t, Config{Restart: func() error { restarted = true; return nil }})
	h := s.Router()

	w := do(t, h, http.MethodPost, "/api/settings", `{"Settings":{"theme":"x"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"restart_available":true`)

	w = do(t, h, http.MethodPost, "/api/restart", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, restarted)
}

func TestHealthAndMetrics(t *testing.T) {
	m := metrics.New()
	s, _ := newTestServer(t, Config{Metrics: m})
	h := s.Router()

	w := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	do(t, h, http.MethodPost, "/api/settings", `{"Settings":{"theme":"x"}}`)
	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `vpinfe_settings_saves_total{result="ok"} 1`))
}
