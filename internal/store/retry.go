package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 30 * time.Second

	// base<<maxBackoffShift already exceeds retryMaxDelay for any sane base.
	maxBackoffShift = 30
)

type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	retryable  func(error) bool
}

// withRetry calls fn until it succeeds, fails permanently, or maxRetries
// extra attempts have been spent, backing off exponentially between attempts.
func withRetry(ctx context.Context, maxRetries int, fn func(context.Context) error) error {
	p := retryPolicy{maxRetries: maxRetries, baseDelay: retryBaseDelay, retryable: isRetryable}
	return p.do(ctx, fn)
}

func (p retryPolicy) do(ctx context.Context, fn func(context.Context) error) error {
	maxRetries := p.maxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt == maxRetries || !p.retryable(err) {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("store connect failed, retrying")
		if err := backoff(ctx, backoffDelay(p.baseDelay, attempt)); err != nil {
			return lastErr
		}
	}
	return lastErr
}

// isRetryable reports whether a connect error is transient. Bad URIs and
// credential failures are permanent and fail on the first attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"authentication failed", "auth error", "unable to authenticate", "error parsing uri", "scheme must be"} {
		if strings.Contains(msg, s) {
			return false
		}
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	for _, s := range []string{"connection refused", "server selection", "timeout", "deadline exceeded", "eof", "reset by peer", "no reachable servers"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func backoffDelay(base time.Duration, attempt int) time.Duration {
	if attempt >= maxBackoffShift {
		return retryMaxDelay
	}
	delay := base << uint(attempt)
	if delay <= 0 || delay > retryMaxDelay {
		return retryMaxDelay
	}
	return delay
}

func backoff(ctx context.Context, delay time.Duration) error {
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
