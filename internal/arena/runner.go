package arena

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Task runs one simulation identified by its index. A returned error means
// "this simulation produced no result"; it never affects sibling tasks.
type Task func(ctx context.Context, idx int) error

// TaskFailure records one simulation that produced no result.
type TaskFailure struct {
	Idx      int
	Err      error
	TimedOut bool
}

// RunReport summarizes a dispatch: how many tasks settled cleanly and
// which degraded.
type RunReport struct {
	Completed int
	Failures  []TaskFailure
}

// Runner dispatches independent simulations on a bounded worker pool. The
// bound protects the shared sandbox; each task gets its own deadline, and
// a failing or timed-out task degrades alone with no cross-task
// cancellation. Run is synchronous: it returns once every dispatched task
// has settled.
type Runner struct {
	Workers int
	Timeout time.Duration
	Logger  *log.Logger
}

type taskResult struct {
	idx int
	err error
}

// Run dispatches count tasks indexed 0..count-1 and blocks until all have
// completed, failed, or timed out.
func (r *Runner) Run(ctx context.Context, count int, task Task) RunReport {
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > count {
		workers = count
	}

	jobs := make(chan int, count)
	results := make(chan taskResult, count)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results <- taskResult{idx: idx, err: r.runOne(ctx, idx, task)}
			}
		}()
	}

	for idx := 0; idx < count; idx++ {
		jobs <- idx
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var report RunReport
	for res := range results {
		if res.err == nil {
			report.Completed++
			continue
		}
		timedOut := errors.Is(res.err, context.DeadlineExceeded)
		report.Failures = append(report.Failures, TaskFailure{Idx: res.idx, Err: res.err, TimedOut: timedOut})
		if r.Logger != nil {
			if timedOut {
				r.Logger.Printf("simulation %d timed out", res.idx)
			} else {
				r.Logger.Printf("simulation %d failed: %v", res.idx, res.err)
			}
		}
	}
	return report
}

// runOne executes a single task under its own deadline, converting panics
// into task failures so a misbehaving simulation cannot take down the
// round.
func (r *Runner) runOne(ctx context.Context, idx int, task Task) (err error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("simulation panicked: %v", rec)
		}
	}()

	return task(ctx, idx)
}
