// Package provision runs multi-step writes across independent backends and
// undoes the applied steps when a later one fails.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/metrics"
)

// RollbackTimeout bounds every rollback call. Rollbacks ignore the caller's
// cancellation so a timed-out request still cleans up.
var RollbackTimeout = 10 * time.Second

// Step is one write. Rollback may be nil for steps that need no undo.
type Step struct {
	Name     string
	Apply    func(ctx context.Context) error
	Rollback func(ctx context.Context) error
}

// Failure reports which step failed. Rollback errors are logged, not returned.
type Failure struct {
	Flow       string
	Step       string
	Err        error
	RolledBack []string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: step %q failed: %v", f.Flow, f.Step, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Run applies steps in order. When step k fails, the rollbacks of steps
// k-1..0 run in reverse order and a *Failure wrapping the step error is
// returned.
func Run(ctx context.Context, flow string, steps ...Step) error {
	for i, step := range steps {
		if err := step.Apply(ctx); err != nil {
			failure := &Failure{Flow: flow, Step: step.Name, Err: err}
			slog.Warn("provisioning step failed, rolling back",
				"flow", flow, "step", step.Name, "error", err)
			failure.RolledBack = rollback(ctx, flow, steps[:i])
			metrics.FlowRuns.WithLabelValues(flow, "failed").Inc()
			return failure
		}
	}
	metrics.FlowRuns.WithLabelValues(flow, "ok").Inc()
	return nil
}

func rollback(ctx context.Context, flow string, applied []Step) []string {
	var done []string
	base := context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		step := applied[i]
		if step.Rollback == nil {
			continue
		}
		rctx, cancel := context.WithTimeout(base, RollbackTimeout)
		err := step.Rollback(rctx)
		cancel()
		if err != nil {
			slog.ErrorContext(base, "rollback failed", "flow", flow, "step", step.Name, "error", err)
			metrics.Compensations.WithLabelValues(flow, step.Name, "failed").Inc()
			continue
		}
		metrics.Compensations.WithLabelValues(flow, step.Name, "ok").Inc()
		done = append(done, step.Name)
	}
	return done
}
