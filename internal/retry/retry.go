package retry

import (
	"log/slog"
	"time"
)

// Class buckets a failure for retry purposes.
type Class int

const (
	// Fatal failures propagate immediately: malformed requests, bad
	// credentials, anything a retry cannot fix.
	Fatal Class = iota
	// Transient failures (upstream 5xx and the like) are retried on the
	// backoff schedule.
	Transient
	// RateLimited failures are retried like Transient ones but first wait
	// out the fixed cooldown, independent of the backoff schedule.
	RateLimited
)

// Policy is a reusable retry-with-backoff description: attempt ceiling,
// exponential schedule, and a classifier deciding which failures are worth
// another attempt. One Policy value wraps any single call site.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	Cooldown       time.Duration
	Classify       func(error) Class

	// Sleep is swapped out in tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// Do runs op until it succeeds, fails fatally, or the attempt ceiling is
// reached. The last error is returned as-is so callers can still inspect it.
func (p Policy) Do(op func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	backoff := p.InitialBackoff
	var err error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		class := Transient
		if p.Classify != nil {
			class = p.Classify(err)
		}
		if class == Fatal {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		if class == RateLimited && p.Cooldown > 0 {
			slog.Warn("[Retry] Rate limited, cooling down",
				slog.Duration("cooldown", p.Cooldown))
			sleep(p.Cooldown)
		}

		slog.Warn("[Retry] Attempt failed, backing off",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()))
		sleep(backoff)

		backoff = time.Duration(float64(backoff) * p.Multiplier)
		if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}

	return err
}
