package engine

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/runabol/mountgate/gate"
	"github.com/runabol/mountgate/health"
	"github.com/runabol/mountgate/internal/uuid"
	"github.com/runabol/mountgate/service"
)

// Engine runs the volume gate followed by the service starter. Every
// call to Run is independent: nothing is remembered between runs.
type Engine struct {
	cfg     Config
	out     io.Writer
	checker gate.Checker
	manager service.Manager
	waiter  health.Waiter
}

type Option = func(e *Engine)

// WithOutput sets where the diagnostic lines are written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

func WithChecker(c gate.Checker) Option {
	return func(e *Engine) {
		e.checker = c
	}
}

func WithManager(m service.Manager) Option {
	return func(e *Engine) {
		e.manager = m
	}
}

func WithWaiter(p health.Waiter) Option {
	return func(e *Engine) {
		e.waiter = p
	}
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg: cfg,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.checker == nil {
		if cfg.Volume.Mountpoint {
			e.checker = gate.MountpointChecker{}
		} else {
			e.checker = gate.DirChecker{}
		}
	}
	if e.manager == nil {
		m, err := service.NewExecManager(service.ExecConfig{
			Manager: cfg.Service.Manager,
			CMD:     cfg.Service.Command,
		})
		if err != nil {
			return nil, err
		}
		e.manager = m
	}
	if e.waiter == nil {
		p, err := e.createWaiter()
		if err != nil {
			return nil, err
		}
		e.waiter = p
	}
	return e, nil
}

func (e *Engine) createWaiter() (health.Waiter, error) {
	switch e.cfg.Readiness.Mode {
	case ReadinessSleep:
		return health.SleepWaiter{Duration: e.cfg.Readiness.Wait}, nil
	case ReadinessSQL:
		chk, err := e.HealthCheck()
		if err != nil {
			return nil, err
		}
		return health.NewPollWaiter(chk, e.cfg.Readiness.Interval, e.cfg.Readiness.Timeout), nil
	default:
		return nil, errors.Errorf("unknown readiness mode: %s", e.cfg.Readiness.Mode)
	}
}

// HealthCheck returns a check that pings the database configured under
// readiness.driver and readiness.dsn.
func (e *Engine) HealthCheck() (*health.HealthCheck, error) {
	if e.cfg.Readiness.DSN == "" {
		return nil, errors.New("readiness.dsn is required to check the database")
	}
	return health.NewHealthCheck().
		WithIndicator(health.ServiceDatabase, health.SQLIndicator(e.cfg.Readiness.Driver, e.cfg.Readiness.DSN)), nil
}

// Check runs the volume gate on its own.
func (e *Engine) Check(ctx context.Context) error {
	return e.gate().Check(ctx)
}

// Run checks the volume and, only if it is present, starts the service
// and waits for it.
func (e *Engine) Run(ctx context.Context) error {
	logger := log.With().Str("run", uuid.NewShortUUID()).Logger()
	ctx = logger.WithContext(ctx)
	logger.Debug().Msgf("checking volume %s", e.cfg.Volume.Path)
	if err := e.gate().Check(ctx); err != nil {
		return err
	}
	starter, err := service.NewStarter(service.Config{
		Name:    e.cfg.Service.Name,
		Manager: e.manager,
		Waiter:  e.waiter,
		Strict:  e.cfg.Service.Strict,
		Out:     e.out,
	})
	if err != nil {
		return err
	}
	if err := starter.Start(ctx); err != nil {
		return err
	}
	logger.Debug().Msgf("%s started", e.cfg.Service.Name)
	return nil
}

func (e *Engine) gate() *gate.Gate {
	return gate.New(gate.Config{
		Path:    e.cfg.Volume.Path,
		Checker: e.checker,
		Out:     e.out,
	})
}
