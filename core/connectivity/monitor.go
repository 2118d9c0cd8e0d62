// Package connectivity reports whether the recognition backend is reachable.
// The session supervisor only reads the boolean; probing happens here.
package connectivity

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// DefaultProbeURL is probed when no endpoint is configured.
	DefaultProbeURL = "https://api.deepgram.com"

	defaultProbeInterval = 15 * time.Second
	defaultProbeTimeout  = 5 * time.Second
)

type Monitor struct {
	probeURL string
	interval time.Duration
	client   *http.Client

	connected atomic.Bool
	onChange  func(connected bool)
}

type MonitorOption func(*Monitor)

func WithProbeURL(url string) MonitorOption {
	return func(m *Monitor) {
		if url != "" {
			m.probeURL = url
		}
	}
}

func WithProbeInterval(interval time.Duration) MonitorOption {
	return func(m *Monitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

// WithChangeCallback registers a callback invoked whenever connectivity flips.
func WithChangeCallback(callback func(connected bool)) MonitorOption {
	return func(m *Monitor) {
		m.onChange = callback
	}
}

func NewMonitor(opts ...MonitorOption) *Monitor {
	monitor := &Monitor{
		probeURL: DefaultProbeURL,
		interval: defaultProbeInterval,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultProbeTimeout,
		},
	}

	for _, opt := range opts {
		opt(monitor)
	}

	return monitor
}

// Run probes the endpoint until ctx is cancelled. The first probe happens
// immediately so IsConnected is meaningful right after startup.
func (m *Monitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) IsConnected() bool {
	return m.connected.Load()
}

func (m *Monitor) probe(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		m.update(false)
		return
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.update(false)
		return
	}
	resp.Body.Close()

	// Any HTTP response means the network path is up; status codes are the
	// backend's business.
	m.update(true)
}

func (m *Monitor) update(connected bool) {
	previous := m.connected.Swap(connected)
	if previous != connected && m.onChange != nil {
		m.onChange(connected)
	}
}
