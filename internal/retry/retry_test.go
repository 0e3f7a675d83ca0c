package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSleeper struct {
	slept []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.slept = append(r.slept, d)
	return ctx.Err()
}

func TestPolicy_Run_DoneOnThirdAttempt(t *testing.T) {
	s := &recordingSleeper{}
	p := Policy{MaxAttempts: 5, Interval: 2 * time.Second, Sleeper: s}

	calls := 0
	err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		calls++
		return attempt == 2, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, s.slept)
}

func TestPolicy_Run_Exhausted(t *testing.T) {
	s := &recordingSleeper{}
	p := Policy{MaxAttempts: 4, Interval: time.Second, Sleeper: s}

	calls := 0
	err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		calls++
		return false, nil
	})

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 4, calls)
	assert.Len(t, s.slept, 4, "a sleep follows every non-terminal attempt")
}

func TestPolicy_Run_SwallowsUntilFinalAttempt(t *testing.T) {
	s := &recordingSleeper{}
	var swallowed []int
	p := Policy{
		MaxAttempts: 3,
		Interval:    time.Millisecond,
		Sleeper:     s,
		OnError:     func(attempt int, err error) { swallowed = append(swallowed, attempt) },
	}

	final := errors.New("attempt 2 failed")
	err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		if attempt == 2 {
			return false, final
		}
		return false, errors.New("transient")
	})

	assert.ErrorIs(t, err, final)
	assert.Equal(t, []int{0, 1}, swallowed)
	assert.Len(t, s.slept, 2)
}

func TestPolicy_Run_RecoversAfterTransientError(t *testing.T) {
	p := Policy{MaxAttempts: 3, Sleeper: &recordingSleeper{}}

	err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		if attempt == 0 {
			return false, errors.New("transient")
		}
		return true, nil
	})
	assert.NoError(t, err)
}

func TestPolicy_Run_SingleAttemptPropagates(t *testing.T) {
	p := Policy{MaxAttempts: 1, Sleeper: &recordingSleeper{}}
	boom := errors.New("boom")

	err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestPolicy_Run_ContextCanceledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 10, Interval: time.Hour, Sleeper: TimerSleeper{}}

	calls := 0
	err := p.Run(ctx, func(ctx context.Context, attempt int) (bool, error) {
		calls++
		cancel()
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Validate(t *testing.T) {
	assert.Error(t, Policy{MaxAttempts: 0}.Validate())
	assert.Error(t, Policy{MaxAttempts: 1, Interval: -time.Second}.Validate())
	assert.NoError(t, Policy{MaxAttempts: 1}.Validate())

	err := Policy{}.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		t.Fatal("attempt function must not run for an invalid policy")
		return false, nil
	})
	assert.Error(t, err)
}

func TestTimerSleeper(t *testing.T) {
	start := time.Now()
	require.NoError(t, TimerSleeper{}.Sleep(context.Background(), 5*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, TimerSleeper{}.Sleep(ctx, time.Hour), context.Canceled)

	var called bool
	f := SleeperFunc(func(ctx context.Context, d time.Duration) error {
		called = true
		return nil
	})
	require.NoError(t, f.Sleep(context.Background(), time.Second))
	assert.True(t, called)
}
