package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/runabol/mountgate"
	"github.com/runabol/mountgate/conf"
	"github.com/runabol/mountgate/engine"
	"github.com/runabol/mountgate/gate"
	"github.com/runabol/mountgate/internal/logging"
	"github.com/runabol/mountgate/internal/signals"
	ucli "github.com/urfave/cli/v2"
)

type CLI struct {
	app    *ucli.App
	out    io.Writer
	errOut io.Writer
	opts   []engine.Option
}

type Option = func(c *CLI)

// WithOutput redirects the diagnostic lines and command output.
func WithOutput(out, errOut io.Writer) Option {
	return func(c *CLI) {
		c.out = out
		c.errOut = errOut
	}
}

// WithEngineOptions is applied to every engine the CLI creates.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(c *CLI) {
		c.opts = append(c.opts, opts...)
	}
}

func New(opts ...Option) *CLI {
	c := &CLI{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	app := &ucli.App{
		Name:      "mountgate",
		Usage:     "start a local database once its external volume is mounted",
		Version:   mountgate.FormattedVersion(),
		Writer:    c.out,
		ErrWriter: c.errOut,
		Flags:     []ucli.Flag{configFlag()},
	}
	app.Before = c.before
	app.Action = c.start
	app.Commands = c.commands()
	c.app = app
	return c
}

// Run executes the command line and returns the process exit code.
func (c *CLI) Run(args []string) int {
	err := c.app.Run(args)
	switch {
	case err == nil:
	case errors.Is(err, gate.ErrVolumeMissing):
		log.Debug().Err(err).Msg("volume check failed")
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(c.errOut, "interrupted")
	default:
		fmt.Fprintln(c.errOut, err)
	}
	return engine.ExitCode(err)
}

func (c *CLI) before(ctx *ucli.Context) error {
	if err := loadConfig(ctx); err != nil {
		return err
	}
	if err := logging.SetupLogging(); err != nil {
		return err
	}
	c.displayBanner()
	return nil
}

func (c *CLI) commands() []*ucli.Command {
	return []*ucli.Command{
		c.startCmd(),
		c.checkCmd(),
		c.healthCmd(),
		c.configCmd(),
		c.versionCmd(),
	}
}

func (c *CLI) engine() (*engine.Engine, error) {
	cfg, err := engine.ConfigFromConf()
	if err != nil {
		return nil, err
	}
	opts := append([]engine.Option{engine.WithOutput(c.out)}, c.opts...)
	return engine.New(cfg, opts...)
}

func (c *CLI) startCmd() *ucli.Command {
	return &ucli.Command{
		Name:   "start",
		Usage:  "Check the volume, start the database service and wait for it",
		Action: c.start,
	}
}

func (c *CLI) start(ctx *ucli.Context) error {
	e, err := c.engine()
	if err != nil {
		return err
	}
	sctx, stop := signals.WithTermination(ctx.Context)
	defer stop()
	return e.Run(sctx)
}

func (c *CLI) checkCmd() *ucli.Command {
	return &ucli.Command{
		Name:  "check",
		Usage: "Only check that the volume is connected",
		Action: func(ctx *ucli.Context) error {
			e, err := c.engine()
			if err != nil {
				return err
			}
			return e.Check(ctx.Context)
		},
	}
}

func (c *CLI) versionCmd() *ucli.Command {
	return &ucli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(_ *ucli.Context) error {
			fmt.Fprintln(c.out, mountgate.FormattedVersion())
			return nil
		},
	}
}

func loadConfig(ctx *ucli.Context) error {
	if ctx.String("config") == "" {
		return conf.LoadConfig()
	}
	return conf.LoadConfig(ctx.String("config"))
}

func configFlag() ucli.Flag {
	return &ucli.StringFlag{
		Name:  "config",
		Usage: "Set the location of the config file",
	}
}
