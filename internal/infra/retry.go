package infra

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times with a fixed delay between attempts.
// It returns nil on the first success, the last error otherwise, and stops
// early when the context is cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
