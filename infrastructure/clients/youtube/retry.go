package youtube

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"

	"tubetrends/infrastructure/logger"
)

const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
	jitterFraction = 0.2
)

// doWithRetry executes fn with exponential backoff and jitter, retrying on
// transient failures (quota 429s, 5xx, network errors). Client errors and
// context cancellation are permanent.
func (c *Client) doWithRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}
		if attempt == c.maxRetries {
			break
		}

		sleep := backoff + jitter(backoff)
		if sleep > maxBackoff {
			sleep = maxBackoff
		}
		logger.GetLogger().
			WithField("op", op).
			WithField("attempt", attempt+1).
			WithField("backoff", sleep.String()).
			WithField("error", err).
			Warn("Retrying YouTube API call")

		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff = time.Duration(float64(backoff) * 2)
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
	return fmt.Errorf("%s: max retries exceeded: %w", op, lastErr)
}

// isRetryable treats API 429/5xx and transport-level failures as transient.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}
	// Non-API errors are network-level and worth another attempt.
	return true
}

// jitter returns a random duration in [-jitterFraction*d, +jitterFraction*d].
func jitter(d time.Duration) time.Duration {
	jitterRange := float64(d) * jitterFraction
	return time.Duration((rand.Float64() - 0.5) * 2 * jitterRange)
}
