package api

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/angristan/tradfri-tui/internal/coap"
)

// RetryPolicy controls the backoff used by Retry
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first
	Attempts   int
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Multiplier float64
}

// DefaultRetryPolicy tries three times with a short exponential backoff
var DefaultRetryPolicy = RetryPolicy{
	Attempts:   3,
	MinBackoff: 500 * time.Millisecond,
	MaxBackoff: 5 * time.Second,
	Multiplier: 2.0,
}

// backoff returns the delay before the given retry (1-based)
func (p RetryPolicy) backoff(retry int) time.Duration {
	d := p.MinBackoff
	for i := 1; i < retry; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
		if p.MaxBackoff > 0 && d > p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	return d
}

// Retry runs fn until it succeeds, fails with a non-transport error, or the
// policy runs out of attempts. Validation, decode and capability errors are
// returned immediately.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		var terr *coap.TransportError
		if !errors.As(err, &terr) || attempt == attempts {
			return err
		}

		delay := policy.backoff(attempt)
		log.Debug().Err(err).Int("attempt", attempt).Dur("backoff", delay).Msg("Retrying gateway request")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
