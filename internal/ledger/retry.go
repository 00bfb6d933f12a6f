package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Policy bounds retries of transient upstream failures with capped
// exponential backoff. The zero value retries nothing; DefaultPolicy matches
// the configuration defaults.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy is used when no retry configuration is supplied.
var DefaultPolicy = Policy{
	MaxAttempts: 5,
	BaseDelay:   2 * time.Second,
	MaxDelay:    time.Minute,
}

// ExhaustedError reports that the attempt budget was spent without success.
type ExhaustedError struct {
	Op       string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: giving up after %d attempts: %v", e.Op, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Do runs fn under the policy. Transient failures are retried after an
// exponential delay capped at MaxDelay; permanent failures and context
// cancellation return immediately.
func (p Policy) Do(ctx context.Context, op string, fn func() error) error {
	attempts := max(p.MaxAttempts, 1)

	var last error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.delay(attempt)):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return err
		}
		last = err
		slog.Warn("transient failure, will retry", "op", op, "attempt", attempt+1, "of", attempts, "error", err)
	}

	return &ExhaustedError{Op: op, Attempts: attempts, Last: last}
}

// delay computes the backoff before the given attempt (attempt >= 1).
func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt-1)
	if p.MaxDelay > 0 && (d > p.MaxDelay || d <= 0) {
		d = p.MaxDelay
	}
	return d
}

// isPermanent reports whether the error can never succeed on retry:
// context cancellation, a missing oracle price, or a non-429 4xx status.
func isPermanent(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrPriceNotFound) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 400 && statusErr.Code < 500 && statusErr.Code != 429
	}
	return false
}
