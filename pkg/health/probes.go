package health

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
)

// GoroutineCount returns a liveness Probe that fails once the process holds
// more than limit goroutines, a cheap tripwire for leaks.
func GoroutineCount(limit int) Probe {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > limit {
			return errors.Errorf("goroutine count %d exceeds limit %d", n, limit)
		}
		return nil
	}
}

// GCMaxPause returns a liveness Probe that fails when any recorded GC pause
// exceeded limit, which usually means the heap has grown out of control.
func GCMaxPause(limit time.Duration) Probe {
	return func(_ context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)
		for _, pause := range stats.Pause {
			if pause > limit {
				return errors.Errorf("GC pause %s exceeds limit %s", pause, limit)
			}
		}
		return nil
	}
}
