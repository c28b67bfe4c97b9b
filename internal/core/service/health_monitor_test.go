package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type scriptedProber struct {
	mu      sync.Mutex
	results []error
	calls   int
}

func (p *scriptedProber) Probe(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if len(p.results) == 0 {
		return nil
	}
	err := p.results[0]
	p.results = p.results[1:]
	return err
}

func (p *scriptedProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fakeClock is advanced by hand.
type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.cur = c.cur.Add(d)
	c.mu.Unlock()
}

var errProbe = errors.New("connection refused")

func newTestMonitor(p *scriptedProber) (*HealthMonitor, *fakeClock) {
	clock := &fakeClock{cur: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewHealthMonitor(p, zerolog.Nop(), WithClock(clock.Now)), clock
}

func TestHealthMonitor_StartsOnline(t *testing.T) {
	m, _ := newTestMonitor(&scriptedProber{})
	st := m.Status()
	if !st.IsOnline || st.RetryCount != 0 {
		t.Fatalf("unexpected initial status %+v", st)
	}
}

func TestHealthMonitor_ThreeFailuresGoOffline(t *testing.T) {
	p := &scriptedProber{results: []error{errProbe, errProbe, errProbe}}
	m, clock := newTestMonitor(p)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		clock.Advance(DefaultProbeInterval)
		if !m.Refresh(ctx) {
			t.Fatalf("failure %d should not flip the state yet", i)
		}
	}
	clock.Advance(DefaultProbeInterval)
	if m.Refresh(ctx) {
		t.Fatalf("third failure should flip to offline")
	}
	if st := m.Status(); st.RetryCount != 3 || st.IsOnline {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestHealthMonitor_SuccessResetsCounter(t *testing.T) {
	p := &scriptedProber{results: []error{errProbe, errProbe, nil}}
	m, clock := newTestMonitor(p)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		clock.Advance(DefaultProbeInterval)
		m.Refresh(ctx)
	}
	if st := m.Status(); !st.IsOnline || st.RetryCount != 0 {
		t.Fatalf("expected online with counter 0, got %+v", st)
	}
}

func TestHealthMonitor_GateReturnsCachedState(t *testing.T) {
	p := &scriptedProber{}
	m, clock := newTestMonitor(p)
	ctx := context.Background()

	m.Refresh(ctx)
	clock.Advance(DefaultProbeInterval - time.Second)
	m.Refresh(ctx)
	if p.Calls() != 0 {
		t.Fatalf("probe inside the interval must be skipped, got %d calls", p.Calls())
	}

	clock.Advance(time.Second)
	m.Refresh(ctx)
	if p.Calls() != 1 {
		t.Fatalf("expected one probe once the interval elapsed, got %d", p.Calls())
	}
	if got := m.Status().LastCheck; !got.Equal(clock.Now()) {
		t.Fatalf("lastCheck should be stamped at probe time, got %v", got)
	}
}

func TestHealthMonitor_ForceCheckAlwaysProbes(t *testing.T) {
	p := &scriptedProber{}
	m, _ := newTestMonitor(p)
	ctx := context.Background()

	m.ForceCheck(ctx)
	m.ForceCheck(ctx)
	if p.Calls() != 2 {
		t.Fatalf("two forced checks should issue two probes, got %d", p.Calls())
	}
}

// gatedProber blocks its first probe until release is closed.
type gatedProber struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	calls   int
}

func (p *gatedProber) Probe(ctx context.Context) error {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()
	if first {
		p.once.Do(func() { close(p.started) })
		select {
		case <-p.release:
		case <-ctx.Done():
			return ctx.Err()
		}
		return errProbe
	}
	return nil
}

func TestHealthMonitor_ForceCheckProbesWhileRefreshInFlight(t *testing.T) {
	p := &gatedProber{started: make(chan struct{}), release: make(chan struct{})}
	clock := &fakeClock{cur: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewHealthMonitor(p, zerolog.Nop(), WithClock(clock.Now))
	ctx := context.Background()

	clock.Advance(DefaultProbeInterval)
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Refresh(ctx)
	}()
	<-p.started

	// The slot is claimed by the in-flight refresh; a forced check must
	// still run its own probe and report its result.
	if !m.ForceCheck(ctx) {
		t.Fatalf("forced probe succeeded, expected online")
	}
	p.mu.Lock()
	calls := p.calls
	p.mu.Unlock()
	if calls != 2 {
		t.Fatalf("expected the forced check to probe, got %d probes", calls)
	}

	close(p.release)
	<-done
}

func TestHealthMonitor_ConcurrentForceChecksEachProbe(t *testing.T) {
	p := &scriptedProber{}
	m, clock := newTestMonitor(p)
	ctx := context.Background()
	clock.Advance(DefaultProbeInterval)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Refresh(ctx)
		}()
		go func() {
			defer wg.Done()
			m.ForceCheck(ctx)
		}()
	}
	wg.Wait()

	if p.Calls() < 8 {
		t.Fatalf("every forced check must probe, got %d probes", p.Calls())
	}
}

func TestHealthMonitor_ForceCheckRecovers(t *testing.T) {
	p := &scriptedProber{}
	m, _ := newTestMonitor(p)
	m.ReportFailure()
	if m.Online() {
		t.Fatalf("ReportFailure should switch to offline")
	}
	if !m.ForceCheck(context.Background()) {
		t.Fatalf("successful forced probe should bring the backend back online")
	}
	if m.Status().RetryCount != 0 {
		t.Fatalf("counter should be reset after a successful probe")
	}
}

func TestHealthMonitor_CustomThreshold(t *testing.T) {
	p := &scriptedProber{results: []error{errProbe}}
	clock := &fakeClock{cur: time.Unix(0, 0)}
	m := NewHealthMonitor(p, zerolog.Nop(), WithClock(clock.Now), WithMaxFailures(1), WithProbeInterval(time.Second))

	clock.Advance(time.Second)
	if m.Refresh(context.Background()) {
		t.Fatalf("threshold 1 should flip on the first failure")
	}
}

func TestHealthMonitor_WatchStopsWithContext(t *testing.T) {
	p := &scriptedProber{}
	m := NewHealthMonitor(p, zerolog.Nop(), WithProbeInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for p.Calls() == 0 {
		select {
		case <-deadline:
			t.Fatalf("watcher never probed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop after cancel")
	}
}
