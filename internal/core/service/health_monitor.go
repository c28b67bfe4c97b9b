package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/conectar/console-gateway/internal/api/metrics"
	"github.com/conectar/console-gateway/internal/core/domain"
	"github.com/conectar/console-gateway/internal/core/ports"
)

const (
	DefaultMaxFailures   = 3
	DefaultProbeInterval = 30 * time.Second
)

// HealthMonitor tracks whether the real backend is presumed reachable.
//
// It starts ONLINE. Probes are rate limited to one per ProbeInterval; a
// successful probe resets the failure counter, and MaxFailures consecutive
// probe failures flip the state to OFFLINE. A failed real call reported
// through ReportFailure flips to OFFLINE immediately.
type HealthMonitor struct {
	prober        ports.HealthProber
	maxFailures   int
	probeInterval time.Duration
	now           func() time.Time
	log           zerolog.Logger

	mu     sync.Mutex
	status domain.BackendStatus
}

// MonitorOption customizes a HealthMonitor.
type MonitorOption func(*HealthMonitor)

func WithMaxFailures(n int) MonitorOption {
	return func(m *HealthMonitor) {
		if n > 0 {
			m.maxFailures = n
		}
	}
}

func WithProbeInterval(d time.Duration) MonitorOption {
	return func(m *HealthMonitor) {
		if d > 0 {
			m.probeInterval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *HealthMonitor) { m.now = now }
}

func NewHealthMonitor(prober ports.HealthProber, log zerolog.Logger, opts ...MonitorOption) *HealthMonitor {
	m := &HealthMonitor{
		prober:        prober,
		maxFailures:   DefaultMaxFailures,
		probeInterval: DefaultProbeInterval,
		now:           time.Now,
		log:           log,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.status = domain.BackendStatus{IsOnline: true, LastCheck: m.now()}
	metrics.BackendOnline.Set(1)
	return m
}

// Refresh probes the backend unless the last check is younger than the probe
// interval, and returns whether it is considered online.
func (m *HealthMonitor) Refresh(ctx context.Context) bool {
	m.mu.Lock()
	now := m.now()
	if now.Sub(m.status.LastCheck) < m.probeInterval {
		online := m.status.IsOnline
		m.mu.Unlock()
		return online
	}
	// Claim the slot before probing so concurrent callers reuse the cached state.
	m.status.LastCheck = now
	m.mu.Unlock()

	return m.probe(ctx)
}

// ForceCheck probes right away, ignoring the probe gate.
func (m *HealthMonitor) ForceCheck(ctx context.Context) bool {
	m.mu.Lock()
	m.status.LastCheck = m.now()
	m.mu.Unlock()

	return m.probe(ctx)
}

// probe runs one health probe and applies its outcome. The caller must have
// claimed the slot by setting LastCheck.
func (m *HealthMonitor) probe(ctx context.Context) bool {
	err := m.prober.Probe(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		metrics.HealthProbesTotal.WithLabelValues("success").Inc()
		if !m.status.IsOnline {
			m.log.Info().Msg("real backend is reachable again")
		}
		m.status.IsOnline = true
		m.status.RetryCount = 0
		metrics.BackendOnline.Set(1)
		return true
	}

	metrics.HealthProbesTotal.WithLabelValues("failure").Inc()
	m.status.RetryCount++
	m.log.Warn().Err(err).Int("retry_count", m.status.RetryCount).Msg("health probe failed")
	if m.status.RetryCount >= m.maxFailures && m.status.IsOnline {
		m.status.IsOnline = false
		metrics.BackendOnline.Set(0)
		m.log.Warn().Msg("real backend marked offline, serving simulated data")
	}
	return m.status.IsOnline
}

// ReportFailure records a failed real call and switches to OFFLINE.
func (m *HealthMonitor) ReportFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.RetryCount++
	if m.status.IsOnline {
		m.log.Warn().Int("retry_count", m.status.RetryCount).Msg("real backend call failed, switching to simulated data")
	}
	m.status.IsOnline = false
	metrics.BackendOnline.Set(0)
}

func (m *HealthMonitor) Status() domain.BackendStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *HealthMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.IsOnline
}

// Watch calls Refresh every interval until ctx is cancelled. It blocks.
func (m *HealthMonitor) Watch(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = m.probeInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	m.log.Info().Dur("interval", every).Msg("backend health watcher started")
	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("backend health watcher stopped")
			return
		case <-ticker.C:
			m.Refresh(ctx)
		}
	}
}
