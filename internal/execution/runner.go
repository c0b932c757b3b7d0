// Package execution runs discovered tests sequentially against one device
// connection, mapping errors and panics onto result statuses so a failing
// test never takes the batch down with it.
package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bletest/domain"
	"bletest/internal/discovery"
	"bletest/suite"
	"bletest/testctx"
)

// Runner executes tests one at a time through a shared execution context.
type Runner struct {
	tc     *testctx.Context
	logger *slog.Logger

	// OnResult, when set, observes each finalized result (progress display).
	OnResult func(*domain.TestResult)
}

// NewRunner creates a Runner bound to an execution context.
func NewRunner(tc *testctx.Context, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{tc: tc, logger: logger}
}

// RunModules executes every module's tests in order. A done context stops
// the batch before the next test; pending waits are always released at the
// end, whatever happened in between.
func (r *Runner) RunModules(ctx context.Context, mods []discovery.ModuleTests) *domain.RunSummary {
	defer r.tc.CleanupPendingTasks()

	for _, mod := range mods {
		for _, test := range mod.Tests {
			if ctx.Err() != nil {
				r.logger.Warn("run canceled, remaining tests skipped", "next", test.Name)
				return r.tc.Summary()
			}
			r.RunTest(ctx, test)
		}
	}
	return r.tc.Summary()
}

// RunTest drives one test through its life cycle: start, optional group
// instance with SetUp, the test body, TearDown when an instance exists, and
// subscription cleanup. A test that already holds a terminal result is not
// re-executed.
func (r *Runner) RunTest(ctx context.Context, t discovery.Test) *domain.TestResult {
	if prev := r.tc.Result(t.Name); prev != nil && prev.Status.Terminal() {
		r.logger.Warn("test already executed in this run, keeping its result",
			"test", t.Name, "status", string(prev.Status))
		// The observer still sees the item so progress stays aligned with
		// the discovered count.
		if r.OnResult != nil {
			r.OnResult(prev)
		}
		return prev
	}

	r.tc.StartTest(t.Name, t.Description)
	defer r.tc.UnsubscribeAll()

	status, message := r.outcome(r.invoke(ctx, t))
	res := r.tc.EndTest(status, message)
	if r.OnResult != nil && res != nil {
		r.OnResult(res)
	}
	return res
}

// invoke runs the test body, including the group life cycle when the test is
// group-bound.
func (r *Runner) invoke(ctx context.Context, t discovery.Test) error {
	dev := r.tc.Device()

	if !t.IsGroupTest() {
		return capture(func() error { return t.Run(ctx, dev, r.tc) })
	}

	instance := t.Group.New()
	if instance != nil {
		if td, ok := instance.(suite.TearDowner); ok {
			// TearDown runs whatever the outcome; its error never changes
			// the result status.
			defer func() {
				if err := capture(func() error { return td.TearDown(ctx, dev, r.tc) }); err != nil {
					r.logger.Error("teardown failed", "test", t.Name, "err", err)
					r.tc.Errorf("teardown failed: %v", err)
				}
			}()
		}
		if su, ok := instance.(suite.SetUpper); ok {
			if err := capture(func() error { return su.SetUp(ctx, dev, r.tc) }); err != nil {
				return fmt.Errorf("setup: %w", err)
			}
		}
	}
	return capture(func() error { return t.Method(ctx, instance, dev, r.tc) })
}

// outcome maps a test error onto the result status and message.
func (r *Runner) outcome(err error) (domain.Status, string) {
	if err == nil {
		return domain.StatusPass, ""
	}

	var failure *domain.Failure
	var skip *domain.Skip
	var statusErr *domain.TestError
	switch {
	case errors.As(err, &failure):
		return domain.StatusFail, failure.Message
	case errors.As(err, &skip):
		return domain.StatusSkip, skip.Message
	case errors.As(err, &statusErr):
		return statusErr.Status, statusErr.Message
	default:
		// Timeouts, canceled contexts, panics and everything else count as
		// infrastructure errors rather than assertion failures.
		return domain.StatusError, err.Error()
	}
}

// capture turns a panic in the hook or test body into an error so one bad
// test cannot abort the batch.
func capture(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}
