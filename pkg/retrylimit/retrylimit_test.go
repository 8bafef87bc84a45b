package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type statusError int

func (s statusError) Error() string   { return http.StatusText(int(s)) }
func (s statusError) StatusCode() int { return int(s) }

func fastPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, RateLimitDelay: time.Millisecond, Multiplier: 2}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, fastPolicy(3), func(context.Context) error {
		calls++
		if calls < 3 {
			return statusError(http.StatusBadGateway)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUp(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Do(context.Background(), nil, fastPolicy(2), func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestDo_StopsOnPermanentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"fatal", Permanent(errors.New("nope"))},
		{"forbidden", statusError(http.StatusForbidden)},
		{"wrapped not found", errors.Join(errors.New("ctx"), statusError(http.StatusNotFound))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), nil, fastPolicy(5), func(context.Context) error {
				calls++
				return tt.err
			})
			assert.Equal(t, tt.err, err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestDo_RateLimitThrottles(t *testing.T) {
	lim := NewLimiter(Limits{Initial: 8, Min: 1, Max: 8, StepUp: 1, StepDown: 0.5, Cooloff: time.Hour})
	calls := 0
	err := Do(context.Background(), lim, fastPolicy(3), func(context.Context) error {
		calls++
		if calls == 1 {
			return statusError(http.StatusTooManyRequests)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, rate.Limit(4), lim.Limit())
}

type slowDown struct{ after time.Duration }

func (slowDown) Error() string               { return "slow down" }
func (slowDown) StatusCode() int             { return http.StatusTooManyRequests }
func (s slowDown) RetryAfter() time.Duration { return s.after }

func TestDo_HonoursRetryAfter(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Do(context.Background(), nil, fastPolicy(2), func(context.Context) error {
		calls++
		if calls == 1 {
			return slowDown{after: 30 * time.Millisecond}
		}
		return nil
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := fastPolicy(5)
	p.InitialDelay = time.Hour
	err := Do(ctx, nil, p, func(context.Context) error {
		cancel()
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimiter_Bounds(t *testing.T) {
	lim := NewLimiter(Limits{Initial: 50, Min: 2, Max: 10, StepUp: 5, StepDown: 0.1, Cooloff: time.Minute})
	assert.Equal(t, rate.Limit(10), lim.Limit())

	clock := time.Now()
	lim.now = func() time.Time { return clock }

	lim.Throttle()
	assert.Equal(t, rate.Limit(2), lim.Limit())

	// no increase during the cool-off
	lim.Success()
	assert.Equal(t, rate.Limit(2), lim.Limit())

	clock = clock.Add(2 * time.Minute)
	lim.Success()
	lim.Success()
	assert.Equal(t, rate.Limit(10), lim.Limit())
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
