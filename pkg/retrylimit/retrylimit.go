// Package retrylimit paces outgoing requests with an adaptive rate limit and
// retries failed ones with exponential backoff.
//
//	lim := retrylimit.NewLimiter(retrylimit.DefaultLimits())
//	err := retrylimit.Do(ctx, lim, retrylimit.DefaultPolicy(), func(ctx context.Context) error {
//	    return send(ctx)
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limits configures a Limiter. Rates are requests per second.
type Limits struct {
	Initial  rate.Limit
	Min      rate.Limit
	Max      rate.Limit
	StepUp   rate.Limit    // added after a success
	StepDown float64       // multiplier applied when throttled
	Cooloff  time.Duration // no increase for this long after throttling
}

// DefaultLimits suits a single bot replying in a handful of channels.
func DefaultLimits() Limits {
	return Limits{Initial: 5, Min: 1, Max: 20, StepUp: 1, StepDown: 0.5, Cooloff: 10 * time.Second}
}

// Limiter is a token bucket whose rate grows on success and shrinks when the
// remote side pushes back. Safe for concurrent use.
type Limiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	limits    Limits
	throttled time.Time
	now       func() time.Time
}

// NewLimiter returns a limiter starting at l.Initial.
func NewLimiter(l Limits) *Limiter {
	if l.Min < 1 {
		l.Min = 1
	}
	if l.Max < l.Min {
		l.Max = l.Min
	}
	l.Initial = clamp(l.Initial, l.Min, l.Max)
	if l.StepDown <= 0 || l.StepDown >= 1 {
		l.StepDown = 0.5
	}
	return &Limiter{
		limiter: rate.NewLimiter(l.Initial, burst(l.Initial)),
		limits:  l,
		now:     time.Now,
	}
}

// Wait blocks until a request may be sent.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Success raises the rate unless the limiter was throttled recently.
func (l *Limiter) Success() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.now().Sub(l.throttled) > l.limits.Cooloff {
		l.set(l.limiter.Limit() + l.limits.StepUp)
	}
}

// Throttle lowers the rate after the remote side refused a request.
func (l *Limiter) Throttle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.throttled = l.now()
	l.set(rate.Limit(float64(l.limiter.Limit()) * l.limits.StepDown))
}

// Limit returns the current rate.
func (l *Limiter) Limit() rate.Limit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limiter.Limit()
}

func (l *Limiter) set(r rate.Limit) {
	r = clamp(r, l.limits.Min, l.limits.Max)
	if r != l.limiter.Limit() {
		l.limiter.SetLimit(r)
		l.limiter.SetBurst(burst(r))
	}
}

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// RetryAfterer is implemented by rate-limit errors that say how long to wait.
type RetryAfterer interface {
	RetryAfter() time.Duration
}

// FatalError stops retrying immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// Policy configures Do.
type Policy struct {
	Attempts       int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	RateLimitDelay time.Duration
	Multiplier     float64
	Jitter         bool
}

// DefaultPolicy retries a few times, which is what a chat reply is worth.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:       3,
		InitialDelay:   250 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		RateLimitDelay: time.Second,
		Multiplier:     2,
		Jitter:         true,
	}
}

// ErrAttemptsExhausted is wrapped by Do's error when every attempt failed.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// Do calls fn until it succeeds, returns a FatalError, ctx ends or the
// attempts run out. A 429 throttles lim and waits RateLimitDelay, or the
// error's own RetryAfter when it is longer; other
// failures back off exponentially. 4xx statuses other than 429 are not
// retried. lim may be nil.
func Do(ctx context.Context, lim *Limiter, p Policy, fn func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}

	delay := p.InitialDelay
	var last error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn(ctx)
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				log.Printf("[INFO] Request succeeded after %d attempts", attempt)
			}
			return nil
		}
		last = err

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return err
		}
		code := statusOf(err)
		if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return err
		}
		if attempt == p.Attempts {
			break
		}

		wait := delay
		if code == http.StatusTooManyRequests {
			if lim != nil {
				lim.Throttle()
			}
			wait = p.RateLimitDelay
			var ra RetryAfterer
			if errors.As(err, &ra) {
				wait = max(wait, ra.RetryAfter())
			}
			log.Printf("[WARN] Rate limited (attempt %d/%d), retrying in %s", attempt, p.Attempts, wait)
		} else {
			if p.Jitter {
				wait = jitter(wait)
			}
			log.Printf("[WARN] Request failed (attempt %d/%d): %v. Retrying in %s", attempt, p.Attempts, err, wait)
			delay = time.Duration(float64(delay) * p.Multiplier)
			if p.MaxDelay > 0 {
				delay = min(delay, p.MaxDelay)
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, p.Attempts, last)
}

func statusOf(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

// jitter adds up to a quarter of d.
func jitter(d time.Duration) time.Duration {
	if d < 4 {
		return d
	}
	return d + rand.N(d/4)
}

func clamp(r, lo, hi rate.Limit) rate.Limit {
	return max(lo, min(r, hi))
}

func burst(r rate.Limit) int {
	return max(1, int(r))
}
