// Package retry wraps fallible operations with bounded exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/krevetko/job-scout/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// wait is overridable in tests.
var wait = utils.WaitFor

// Policy describes how many times an operation is attempted and how long to
// wait between attempts. The delay doubles after every failed attempt and
// carries no jitter. All errors are treated as retryable.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy returns the policy used across the pipeline: 3 attempts
// starting at a 1 second delay.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: defaultMaxAttempts, BaseDelay: defaultBaseDelay}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	return p
}

// Do invokes op until it succeeds or the policy is exhausted, waiting
// BaseDelay * 2^attempt between failures. The last error is returned when all
// attempts fail. Each failed attempt is logged with its index and reason.
func Do(ctx context.Context, logger *zap.Logger, p Policy, name string, op func(context.Context) error) error {
	p = p.normalized()

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if logger != nil {
			logger.Warn("operation failed",
				zap.String("operation", name),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", p.MaxAttempts),
				zap.Error(lastErr),
			)
		}

		if attempt == p.MaxAttempts-1 {
			break
		}

		delay := p.BaseDelay << attempt
		if err := wait(ctx, delay); err != nil {
			return err
		}
	}

	return lastErr
}
