package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/orgball2608/fawazbook/pkg/logger"
)

// Policy bounds how often and how patiently an operation is retried.
// Attempts counts retries after the first call.
type Policy struct {
	Attempts uint64
	Initial  time.Duration
	Max      time.Duration
	Factor   float64
}

var (
	// Postgres is used while waiting for the fixture database at startup.
	Postgres = Policy{Attempts: 5, Initial: time.Second, Max: 10 * time.Second, Factor: 2}
	// Telegram covers Bot API sends and edits; users are waiting on these.
	Telegram = Policy{Attempts: 3, Initial: 500 * time.Millisecond, Max: 5 * time.Second, Factor: 1.5}
)

func (p Policy) backOff(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.Initial
	bo.MaxInterval = p.Max
	bo.Multiplier = p.Factor
	bo.MaxElapsedTime = 0
	bo.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(bo, p.Attempts), ctx)
}

// Permanent marks err as not worth retrying; Do returns it unwrapped right away.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs operation until it succeeds, returns a Permanent error, the policy
// runs out of attempts or ctx is done.
func Do(ctx context.Context, log logger.Logger, op string, p Policy, operation func() error) error {
	return backoff.RetryNotify(operation, p.backOff(ctx), func(err error, wait time.Duration) {
		log.Warn("Operation failed, retrying...",
			"operation", op,
			"error", err,
			"next_attempt_in", wait.Round(time.Millisecond).String(),
		)
	})
}
