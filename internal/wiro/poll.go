package wiro

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wirotask/internal/retry"
	"wirotask/internal/task"
)

// Poll waits for the task to reach a terminal phase using the client's
// policy (DefaultMaxAttempts attempts, DefaultPollInterval apart).
func (c *Client) Poll(ctx context.Context, h task.Handle) (task.Record, error) {
	return c.poll(ctx, h, c.Policy(), c.pollLog)
}

// PollWith is Poll with an explicit policy. A nil Sleeper uses the client's.
//
// A fetch error is swallowed on every attempt but the last, so a flaky
// network looks the same as a task that is still running. Unrecognized
// statuses are logged and polled through. On cancellation the last record
// is returned together with ErrTaskCancelled.
func (c *Client) PollWith(ctx context.Context, h task.Handle, p retry.Policy) (task.Record, error) {
	return c.poll(ctx, h, p, c.pollLog)
}

func (c *Client) poll(ctx context.Context, h task.Handle, p retry.Policy, log *zap.Logger) (task.Record, error) {
	if h.IsZero() {
		return task.Record{}, fmt.Errorf("failed to poll task: %w", ErrMissingTaskRef)
	}
	if p.Sleeper == nil {
		p.Sleeper = c.sleeper
	}
	p.OnError = func(attempt int, err error) {
		log.Debug("poll attempt failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", p.MaxAttempts),
			zap.Error(err))
	}

	var final task.Record
	err := p.Run(ctx, func(ctx context.Context, attempt int) (bool, error) {
		rec, err := c.Detail(ctx, h)
		if err != nil {
			return false, err
		}
		if c.onStatus != nil {
			c.onStatus(rec)
		}

		phase := rec.Phase()
		log.Debug("poll attempt",
			zap.Int("attempt", attempt+1),
			zap.String("status", rec.Status),
			zap.Stringer("phase", phase))

		if phase.IsTerminal() {
			final = rec
			return true, nil
		}
		if phase == task.PhaseUnknown {
			log.Warn("unknown task status", zap.String("status", rec.Status))
		}
		return false, nil
	})

	switch {
	case errors.Is(err, retry.ErrExhausted):
		log.Warn("polling timed out", zap.Int("max_attempts", p.MaxAttempts))
		return task.Record{}, fmt.Errorf("failed to poll task: %w", ErrPollTimeout)
	case err != nil:
		return task.Record{}, fmt.Errorf("failed to poll task: %w", err)
	}

	if final.Phase() == task.PhaseCancelled {
		log.Info("task cancelled", zap.String("task_id", h.TaskID))
		return final, fmt.Errorf("failed to poll task: %w", ErrTaskCancelled)
	}
	return final, nil
}
