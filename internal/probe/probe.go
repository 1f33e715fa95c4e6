// Package probe waits for an HTTP server to start answering.
package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/vpinfe/vpinfe/internal/metrics"
)

const (
	// DefaultTimeout bounds the whole wait.
	DefaultTimeout = 15 * time.Second
	// DefaultInterval is the pause between attempts.
	DefaultInterval = 250 * time.Millisecond
	// AttemptTimeout bounds a single request.
	AttemptTimeout = time.Second
)

// Prober polls a URL until any HTTP response arrives.
type Prober struct {
	Client   *http.Client
	Interval time.Duration
	Metrics  *metrics.Metrics

	now   func() time.Time
	sleep func(time.Duration)
}

// New returns a Prober with the default interval and attempt timeout.
func New(m *metrics.Metrics) *Prober {
	return &Prober{
		Client:   &http.Client{Timeout: AttemptTimeout},
		Interval: DefaultInterval,
		Metrics:  m,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// WaitForServer polls url with a default Prober.
func WaitForServer(url string, timeout time.Duration) bool {
	return New(nil).Wait(url, timeout)
}

// Wait reports whether url produced an HTTP response of any status before the
// timeout elapsed. Transport errors, malformed URLs and timeouts count as "not
// yet"; Wait never returns an error.
func (p *Prober) Wait(url string, timeout time.Duration) bool {
	now, sleep := p.now, p.sleep
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: AttemptTimeout}
	}

	start := now()
	deadline := start.Add(timeout)
	for {
		if p.attempt(client, url) {
			p.Metrics.ProbeFinished(now().Sub(start), true)
			return true
		}
		if !now().Before(deadline) {
			p.Metrics.ProbeFinished(now().Sub(start), false)
			return false
		}
		sleep(p.Interval)
	}
}

func (p *Prober) attempt(client *http.Client, url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
