package linear

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultRetryDelays defines the exponential backoff delays for retry attempts
var DefaultRetryDelays = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
}

// withRetry executes fn, retrying on rate limit errors with the client's
// backoff delays. Waiting stops early when ctx is cancelled.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err = fn()
		if err == nil || !IsRateLimited(err) {
			return err
		}
		if attempt == c.maxRetries || len(c.retryDelays) == 0 {
			break
		}

		delay := c.retryDelays[min(attempt, len(c.retryDelays)-1)]
		c.log.Warn("rate limited, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
