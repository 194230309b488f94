package health

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/runabol/mountgate/internal/logging"
)

// ErrNotReady is returned by a waiter that gave up before the service
// reported itself healthy.
var ErrNotReady = errors.New("service not ready")

// Waiter blocks until the started service is considered ready.
type Waiter interface {
	Wait(ctx context.Context) error
}

// SleepWaiter waits a fixed duration and assumes the service is ready
// afterwards. It only returns early when ctx is cancelled.
type SleepWaiter struct {
	Duration time.Duration
}

func (p SleepWaiter) Wait(ctx context.Context) error {
	if p.Duration <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Duration)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PollWaiter runs a HealthCheck at a constant interval until it reports
// StatusUp or the timeout elapses.
type PollWaiter struct {
	check    *HealthCheck
	interval time.Duration
	timeout  time.Duration
}

func NewPollWaiter(check *HealthCheck, interval, timeout time.Duration) *PollWaiter {
	return &PollWaiter{
		check:    check,
		interval: interval,
		timeout:  timeout,
	}
}

func (p *PollWaiter) Wait(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	logger := logging.Ctx(ctx)
	attempt := 0
	op := func() error {
		attempt++
		res := p.check.Do(pctx)
		if res.Status != StatusUp {
			return errors.Errorf("health status is %s", res.Status)
		}
		return nil
	}
	b := backoff.WithContext(backoff.NewConstantBackOff(p.interval), pctx)
	err := backoff.RetryNotify(op, b, func(err error, d time.Duration) {
		logger.Debug().Err(err).Int("attempt", attempt).Msgf("not ready yet, retrying in %s", d)
	})
	if err == nil {
		logger.Debug().Int("attempt", attempt).Msg("service reported ready")
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.Wrapf(ErrNotReady, "gave up after %s (%d attempts)", p.timeout, attempt)
}
