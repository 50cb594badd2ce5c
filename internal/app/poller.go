package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// refresher is the slice of *actions.Actions the background loop needs.
type refresher interface {
	GetTodos(ctx context.Context) error
}

// StartRefresher launches a background goroutine that reloads the todo list
// at a fixed cadence, backing off while the server is unreachable. It
// returns immediately and stops when ctx is cancelled.
func StartRefresher(ctx context.Context, acts refresher, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := acts.GetTodos(ctx); err != nil {
				failures++
				log.Debug("background refresh failed", zap.Int("failures", failures), zap.Error(err))
			} else {
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
