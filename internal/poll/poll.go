// Package poll provides bounded fixed-interval polling that always ends in an
// explicit outcome: success, the probe's error, or ErrTimeout. Callers must
// surface the timeout instead of silently giving up.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the deadline passes without the condition
// holding.
var ErrTimeout = errors.New("poll: timed out")

// Until calls probe every interval until it returns done=true, the timeout
// elapses, or ctx is cancelled. A probe error aborts immediately.
func Until(ctx context.Context, interval, timeout time.Duration, probe func(ctx context.Context) (done bool, err error)) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := probe(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
