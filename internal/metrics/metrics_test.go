package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.WindowCreated("table")
		m.WindowSkipped("dmd", "monitor_missing")
		m.WindowsClosed()
		m.ProbeFinished(time.Second, false)
		m.DialogRequested("file", "chosen")
		m.SettingsSaved(nil)
		m.IPCCommand("QUIT")
		m.OverlayOpened()
	})
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := New()

	m.WindowCreated("bg")
	m.WindowCreated("table")
	m.WindowSkipped("dmd", "monitor_missing")
	m.SettingsSaved(errors.New("disk full"))
	m.SettingsSaved(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowsCreated.WithLabelValues("table")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WindowsOpen))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowsSkipped.WithLabelValues("dmd", "monitor_missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SettingsSaves.WithLabelValues("error")))

	m.WindowsClosed()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WindowsOpen))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ProbeFinished(250*time.Millisecond, true)
	m.IPCCommand("RELOAD")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `vpinfe_probe_duration_seconds_count{outcome="ready"} 1`)
	assert.Contains(t, string(body), `vpinfe_ipc_commands_total{command="RELOAD"} 1`)
}
