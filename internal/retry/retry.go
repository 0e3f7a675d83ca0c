// Package retry implements the fixed-delay attempt loop used by the poller.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned by Run when every attempt finished without the
// attempt function reporting done.
var ErrExhausted = errors.New("retry attempts exhausted")

// Sleeper suspends the caller between attempts.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerSleeper sleeps on a real timer and wakes early if ctx is done.
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// AttemptFunc performs one attempt. attempt is zero-based. Returning
// done=true ends the loop successfully.
type AttemptFunc func(ctx context.Context, attempt int) (done bool, err error)

// Policy is a fixed-count, fixed-delay retry policy. An error from a
// non-final attempt is passed to OnError and swallowed; the error from the
// final attempt is returned. A sleep of Interval follows every attempt that
// does not finish the loop, including the last one.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	Sleeper     Sleeper

	// OnError observes swallowed errors. Optional.
	OnError func(attempt int, err error)
}

// Validate checks the policy is runnable.
func (p Policy) Validate() error {
	if p.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", p.MaxAttempts)
	}
	if p.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", p.Interval)
	}
	return nil
}

// IsFinal reports whether attempt is the last one the policy allows.
func (p Policy) IsFinal(attempt int) bool {
	return attempt == p.MaxAttempts-1
}

// Run drives fn until it reports done, the final attempt fails, the
// context ends, or attempts run out (ErrExhausted).
func (p Policy) Run(ctx context.Context, fn AttemptFunc) error {
	if err := p.Validate(); err != nil {
		return err
	}
	sleeper := p.Sleeper
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		done, err := fn(ctx, attempt)
		if err != nil {
			if p.IsFinal(attempt) {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if p.OnError != nil {
				p.OnError(attempt, err)
			}
		} else if done {
			return nil
		}

		if err := sleeper.Sleep(ctx, p.Interval); err != nil {
			return err
		}
	}

	return ErrExhausted
}
