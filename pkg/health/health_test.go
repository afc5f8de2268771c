package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passing() Probe {
	return func(_ context.Context) error { return nil }
}

func failing(msg string) Probe {
	return func(_ context.Context) error { return errors.New(msg) }
}

// drive runs a probe n times, standing in for scheduler ticks.
func drive(p *probeState, n int) {
	for range n {
		p.observe(context.Background())
	}
}

func decodeReport(t *testing.T, w *httptest.ResponseRecorder) probeReport {
	t.Helper()
	var report probeReport
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	return report
}

func TestLiveEndpoint_AllPassing(t *testing.T) {
	c := New()
	c.AddLivenessProbe("one", time.Second, passing())
	c.AddLivenessProbe("two", time.Second, passing())

	w := httptest.NewRecorder()
	c.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decodeReport(t, w).Status)
}

func TestLiveEndpoint_FailingProbe(t *testing.T) {
	c := New()
	c.AddLivenessProbe("db", time.Second, failing("connection refused"))

	// Probes start optimistic; it takes failAfter consecutive failures to
	// flip the state.
	drive(c.liveness[0], 3)

	w := httptest.NewRecorder()
	c.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	report := decodeReport(t, w)
	assert.Equal(t, "unhealthy", report.Status)
	assert.Equal(t, "connection refused", report.Checks["db"])
}

func TestLiveEndpoint_FailureBelowThreshold(t *testing.T) {
	c := New()
	c.AddLivenessProbe("flaky", time.Second, failing("temporary"))

	drive(c.liveness[0], 2)

	w := httptest.NewRecorder()
	c.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProbeRecovery(t *testing.T) {
	var fail bool
	c := New()
	c.AddLivenessProbe("wobbly", time.Second, func(_ context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	})
	p := c.liveness[0]

	fail = true
	drive(p, 3)
	assert.False(t, p.up.Load())

	// okAfter is 1, so a single success restores the probe.
	fail = false
	drive(p, 1)
	assert.True(t, p.up.Load())
}

func TestReadyEndpoint_ReadyAndPassing(t *testing.T) {
	c := New()
	c.AddReadinessProbe("postgres", time.Second, passing())
	c.SetReady(true)

	w := httptest.NewRecorder()
	c.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeReport(t, w).Status)
}

func TestReadyEndpoint_NotReady(t *testing.T) {
	c := New()
	c.AddReadinessProbe("postgres", time.Second, passing())

	w := httptest.NewRecorder()
	c.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	report := decodeReport(t, w)
	assert.Equal(t, "unhealthy", report.Status)
	assert.Contains(t, report.Checks, "_readiness")
}

func TestReadyEndpoint_DrainOnShutdown(t *testing.T) {
	c := New()
	c.AddReadinessProbe("postgres", time.Second, passing())
	c.SetReady(true)

	w := httptest.NewRecorder()
	c.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	c.SetReady(false)

	w = httptest.NewRecorder()
	c.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReadyEndpoint_OneProbeFailing(t *testing.T) {
	c := New()
	c.AddReadinessProbe("postgres", time.Second, passing())
	c.AddReadinessProbe("cache", time.Second, failing("cache miss"))
	c.SetReady(true)

	drive(c.readiness[1], 3)

	w := httptest.NewRecorder()
	c.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	report := decodeReport(t, w)
	assert.Contains(t, report.Checks, "cache")
	assert.NotContains(t, report.Checks, "postgres")
}

func TestIsReady(t *testing.T) {
	c := New()
	c.AddReadinessProbe("postgres", time.Second, passing())

	assert.False(t, c.IsReady(), "manual gate starts closed")

	c.SetReady(true)
	assert.True(t, c.IsReady())

	drive(c.readiness[0], 1)
	assert.True(t, c.IsReady())
}

func TestStartRunsProbes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{}, 1)
	c := New()
	c.AddLivenessProbe("signal", time.Second, func(_ context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	c.Start(ctx, 10*time.Millisecond)
	defer c.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("probe never ran")
	}
}

func TestGoroutineCount(t *testing.T) {
	assert.NoError(t, GoroutineCount(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCount(0)(context.Background()))
}
