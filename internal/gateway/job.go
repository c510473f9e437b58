package gateway

import (
	"context"
	"fmt"
	"time"

	"co_monitoring/internal/engine"
)

// Clock abstracts time for the polling loop so tests can simulate slow jobs
// and timeouts without waiting.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// runQuery drives one job from submission to fetched rows: submit, poll until
// terminal or deadline, fetch. Each engine call gets the bounded retry budget.
func (g *Gateway) runQuery(ctx context.Context, query string) (engine.ResultSet, error) {
	var id string
	err := g.withRetry(ctx, "submit", func() error {
		var serr error
		id, serr = g.engine.Submit(ctx, query)
		return serr
	})
	if err != nil {
		return engine.ResultSet{}, err
	}

	job, err := g.awaitTerminal(ctx, id)
	if err != nil {
		return engine.ResultSet{}, err
	}
	if job.Status != engine.StatusSucceeded {
		reason := job.Reason
		if reason == "" {
			reason = "no reason reported"
		}
		return engine.ResultSet{}, fmt.Errorf("%w: job %s %s: %s", ErrQueryFailed, id, job.Status, reason)
	}

	var rs engine.ResultSet
	err = g.withRetry(ctx, "fetch", func() error {
		var ferr error
		rs, ferr = g.engine.Results(ctx, id)
		return ferr
	})
	if err != nil {
		return engine.ResultSet{}, err
	}
	return rs, nil
}

// awaitTerminal polls the job at the configured interval until it reaches a
// terminal state or the query timeout elapses.
func (g *Gateway) awaitTerminal(ctx context.Context, id string) (engine.Job, error) {
	deadline := g.clock.Now().Add(g.opts.QueryTimeout)
	for {
		var job engine.Job
		err := g.withRetry(ctx, "status", func() error {
			var serr error
			job, serr = g.engine.Status(ctx, id)
			return serr
		})
		if err != nil {
			return engine.Job{}, err
		}
		if job.Status.Terminal() {
			return job, nil
		}
		if !g.clock.Now().Before(deadline) {
			return engine.Job{}, fmt.Errorf("%w: job %s not terminal after %s", ErrTimeout, id, g.opts.QueryTimeout)
		}
		if err := g.clock.Sleep(ctx, g.opts.PollInterval); err != nil {
			return engine.Job{}, err
		}
	}
}

// withRetry runs fn up to MaxAttempts times with doubling backoff between
// attempts. Exhaustion surfaces as ErrUnavailable wrapping the last error.
func (g *Gateway) withRetry(ctx context.Context, op string, fn func() error) error {
	backoff := g.opts.RetryBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= g.opts.MaxAttempts {
			break
		}
		if g.log != nil {
			g.log.Warnw("engine call failed, retrying", "op", op, "attempt", attempt, "err", err)
		}
		if serr := g.clock.Sleep(ctx, backoff); serr != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, serr)
		}
		backoff *= 2
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
