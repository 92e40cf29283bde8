// Package retry runs calls to external providers with bounded exponential
// backoff and jitter.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"deal_scout/pkg/contextx"
	"deal_scout/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const jitter = 0.5

type Policy struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	BaseDelay   time.Duration `env:"BASE_DELAY" envDefault:"500ms"`
	MaxDelay    time.Duration `env:"MAX_DELAY" envDefault:"10s"`
}

// Once runs the operation a single time.
var Once = Policy{MaxAttempts: 1} //nolint:gochecknoglobals

// Permanent marks err as not worth retrying. Do returns the unwrapped error.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do calls op until it succeeds, returns a Permanent error, the attempts are
// exhausted or ctx is done.
func Do(ctx context.Context, p Policy, name string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.MaxInterval = max(p.MaxDelay, p.BaseDelay)
	b.RandomizationFactor = jitter
	b.MaxElapsedTime = 0

	retries := uint64(0)
	if p.MaxAttempts > 1 {
		retries = uint64(p.MaxAttempts - 1)
	}

	attempt := 0

	return backoff.RetryNotify(
		func() error {
			attempt++
			return op()
		},
		backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx),
		func(err error, wait time.Duration) {
			logger(ctx).Warn(
				"retrying "+name,
				slog.Int(logx.FieldAttempt, attempt),
				slog.Duration("wait", wait),
				logx.Error(err),
			)
		},
	)
}

// DoValue is Do for operations returning a value.
func DoValue[T any](ctx context.Context, p Policy, name string, op func() (T, error)) (T, error) {
	var result T

	err := Do(ctx, p, name, func() error {
		v, err := op()
		if err != nil {
			return err
		}

		result = v

		return nil
	})

	return result, err
}
