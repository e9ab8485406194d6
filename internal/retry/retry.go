package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Policy bundles the retry settings used by every external call site.
// A zero MaxAttempts or Backoff falls back to the defaults below so a
// partially filled config stays usable.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first one.
	MaxAttempts int
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// Backoff is the base delay between attempts. The actual delay grows
	// linearly with the attempt number.
	Backoff time.Duration
}

const (
	defaultMaxAttempts = 3
	defaultTimeout     = 20 * time.Second
	defaultBackoff     = 800 * time.Millisecond
)

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}
	if p.Backoff <= 0 {
		p.Backoff = defaultBackoff
	}
	return p
}

// Do runs fn under the policy: each attempt gets its own timeout-bounded
// context, failed attempts wait Backoff*attempt before the next try. The last
// error is returned once attempts are exhausted or the parent context is done.
func (p Policy) Do(ctx context.Context, logger *zap.Logger, name string, fn func(ctx context.Context) error) error {
	p = p.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if logger != nil {
			logger.Debug("call failed",
				zap.String("call", name),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", p.MaxAttempts),
				zap.Error(err),
			)
		}

		if attempt == p.MaxAttempts {
			break
		}

		if err := WaitFor(ctx, p.Backoff*time.Duration(attempt)); err != nil {
			return err
		}
	}

	return fmt.Errorf("%s: giving up after %d attempts: %w", name, p.MaxAttempts, lastErr)
}

var sleep = time.Sleep

// WaitFor sleeps for d but returns early with the context error when the
// context is canceled first.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
