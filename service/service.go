// Package service starts the database service once the volume gate has
// passed and waits for it to become ready.
package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/runabol/mountgate/health"
	"github.com/runabol/mountgate/internal/logging"
)

// ErrServiceStartFailed is returned by a Manager when the service
// manager could not be invoked or reported a failure.
var ErrServiceStartFailed = errors.New("service start failed")

// Manager asks the host service manager to start a named service.
type Manager interface {
	Start(ctx context.Context, name string) error
}

type Starter struct {
	name    string
	manager Manager
	waiter  health.Waiter
	strict  bool
	out     io.Writer
}

type Config struct {
	Name    string
	Manager Manager
	Waiter  health.Waiter
	// Strict propagates a failed start instead of logging it and
	// waiting regardless.
	Strict bool
	Out    io.Writer
}

func NewStarter(cfg Config) (*Starter, error) {
	if cfg.Name == "" {
		return nil, errors.New("service name is required")
	}
	if cfg.Manager == nil {
		return nil, errors.New("service manager is required")
	}
	if cfg.Waiter == nil {
		return nil, errors.New("readiness waiter is required")
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Starter{
		name:    cfg.Name,
		manager: cfg.Manager,
		waiter:  cfg.Waiter,
		strict:  cfg.Strict,
		out:     cfg.Out,
	}, nil
}

// Start invokes the service manager exactly once, then blocks on the
// readiness waiter before announcing the service as ready.
func (s *Starter) Start(ctx context.Context) error {
	fmt.Fprintf(s.out, "正在啟動 %s...\n", s.name)
	if err := s.manager.Start(ctx, s.name); err != nil {
		if s.strict {
			return err
		}
		logging.Ctx(ctx).Warn().Err(err).Msgf("start of %s failed, waiting anyway", s.name)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	fmt.Fprintf(s.out, "等待 %s 啟動...\n", s.name)
	if err := s.waiter.Wait(ctx); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s 已就緒\n", s.name)
	return nil
}
