// Package health exposes liveness and readiness probes over HTTP.
//
// Probes are evaluated periodically by a single scheduler goroutine rather
// than on every HTTP hit, so a slow dependency cannot stall the probe
// endpoints. Consecutive-failure and consecutive-success thresholds keep a
// single blip from flipping the reported state.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Probe inspects one dependency or process property. A nil return means the
// probed component is fine.
type Probe func(ctx context.Context) error

// probeState pairs a Probe with its flap-damping counters. The counters are
// touched only by the scheduler goroutine; up and lastErr are shared with the
// HTTP handlers through atomics.
type probeState struct {
	name    string
	timeout time.Duration
	fn      Probe

	failAfter int
	okAfter   int

	up      atomic.Bool
	lastErr atomic.Pointer[error]

	fails int
	oks   int
}

func (p *probeState) observe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.fn(probeCtx)
	cancel()

	p.lastErr.Store(&err)

	if err != nil {
		p.oks = 0
		if p.fails++; p.fails >= p.failAfter {
			p.up.Store(false)
		}
		return
	}

	p.fails = 0
	if p.oks++; p.oks >= p.okAfter {
		p.up.Store(true)
	}
}

func (p *probeState) failure() (string, bool) {
	if p.up.Load() {
		return "", false
	}
	if errp := p.lastErr.Load(); errp != nil && *errp != nil {
		return (*errp).Error(), true
	}
	return "probe is failing", true
}

// Checker owns a set of liveness and readiness probes and serves their
// combined state. The zero value is usable but starts not ready; call
// SetReady(true) once startup work is done.
type Checker struct {
	ready atomic.Bool

	// mu guards the probe slices and stop. Registration happens before Start,
	// handlers only take short read locks to snapshot the slices.
	mu        sync.RWMutex
	liveness  []*probeState
	readiness []*probeState
	stop      context.CancelFunc
}

// New returns an empty Checker in the not-ready state.
func New() *Checker {
	return &Checker{}
}

func newProbeState(name string, timeout time.Duration, fn Probe) *probeState {
	p := &probeState{
		name:      name,
		timeout:   timeout,
		fn:        fn,
		failAfter: 3,
		okAfter:   1,
	}
	// Start optimistic so a deploy is not marked dead before the first tick.
	p.up.Store(true)
	return p
}

// AddLivenessProbe registers a probe that decides whether the process itself
// is broken and should be restarted, such as a goroutine-leak watchdog.
func (c *Checker) AddLivenessProbe(name string, timeout time.Duration, fn Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveness = append(c.liveness, newProbeState(name, timeout, fn))
}

// AddReadinessProbe registers a probe that decides whether the service can
// take traffic right now, such as a database ping.
func (c *Checker) AddReadinessProbe(name string, timeout time.Duration, fn Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readiness = append(c.readiness, newProbeState(name, timeout, fn))
}

// Start launches the scheduler goroutine. All probes run once immediately and
// then sequentially every interval. Start should be called once, after all
// probes are registered.
func (c *Checker) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.stop = cancel
	probes := make([]*probeState, 0, len(c.liveness)+len(c.readiness))
	probes = append(probes, c.liveness...)
	probes = append(probes, c.readiness...)
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			for _, p := range probes {
				p.observe(ctx)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop halts the scheduler. Safe to call more than once.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

// SetReady flips the manual readiness gate. Set it to false at the start of
// graceful shutdown so load balancers drain the instance before Close.
func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

// IsReady reports whether the manual gate is open and every readiness probe
// is currently passing.
func (c *Checker) IsReady() bool {
	if !c.ready.Load() {
		return false
	}

	c.mu.RLock()
	probes := c.readiness
	c.mu.RUnlock()

	for _, p := range probes {
		if !p.up.Load() {
			return false
		}
	}
	return true
}

type probeReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the liveness state: 200 {"status":"ok"} while every
// liveness probe passes, 503 with per-probe failure messages otherwise.
func (c *Checker) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	probes := make([]*probeState, len(c.liveness))
	copy(probes, c.liveness)
	c.mu.RUnlock()

	writeReport(w, gatherFailures(probes))
}

// ReadyEndpoint serves the readiness state. The manual gate counts as one
// more condition on top of the registered readiness probes.
func (c *Checker) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	ready := c.ready.Load()

	c.mu.RLock()
	probes := make([]*probeState, len(c.readiness))
	copy(probes, c.readiness)
	c.mu.RUnlock()

	failures := gatherFailures(probes)
	if !ready {
		failures["_readiness"] = "service is not ready"
	}
	writeReport(w, failures)
}

func gatherFailures(probes []*probeState) map[string]string {
	failures := make(map[string]string)
	for _, p := range probes {
		if msg, failed := p.failure(); failed {
			failures[p.name] = msg
		}
	}
	return failures
}

func writeReport(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	report := probeReport{Status: "ok"}
	code := http.StatusOK
	if len(failures) > 0 {
		report.Status = "unhealthy"
		report.Checks = failures
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(report)
}
