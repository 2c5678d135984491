package utils

import (
	"context"
	"errors"
	"time"

	"github.com/tamsys/backend/internal/apperrors"
)

// RetryConfig defines exponential backoff behavior for transient
// persistence failures
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultRetryConfig is used at operation boundaries that talk to storage
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     3,
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     2 * time.Second,
	Multiplier:      2.0,
}

// WithRetry runs fn, retrying with exponential backoff while it returns a
// persistence failure. Other error kinds are surfaced immediately: they are
// the caller's problem, not a transient fault.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	interval := cfg.InitialInterval
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, apperrors.ErrPersistence) {
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}

		interval = time.Duration(float64(interval) * cfg.Multiplier)
		if interval > cfg.MaxInterval {
			interval = cfg.MaxInterval
		}
	}
}
