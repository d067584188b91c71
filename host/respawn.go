package host

import (
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/wfcgen/wfcgen/libs/log"
)

// RespawnFunc rebuilds whatever a caller needs recreated after a failed
// attempt (e.g. re-opening a catalog file, rebuilding a Manager's backing
// store). It is retried by Respawn until it succeeds or the retry budget
// is exhausted.
type RespawnFunc func() error

// Respawn retries fn with exponential backoff, the same shape as the
// teacher's RetrySignerClient wrapping each signing operation in a
// bounded retry loop, but using a real backoff policy instead of a fixed
// time.Sleep between attempts. With maxRetries <= 0 there is no retry
// count; retrying then stops only when the exponential policy's default
// maximum elapsed time (15 minutes) runs out.
func Respawn(fn RespawnFunc, maxRetries int, logger log.Logger) error {
	if logger == nil {
		logger = log.NopLogger()
	}

	bo := backoff.NewExponentialBackOff()
	var policy backoff.BackOff = bo
	if maxRetries > 0 {
		policy = backoff.WithMaxRetries(bo, uint64(maxRetries))
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := fn()
		if err != nil {
			logger.Error("respawn attempt failed", "attempt", attempt, "err", err)
		}
		return err
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("host: exhausted respawn attempts: %w", err)
	}
	return nil
}
