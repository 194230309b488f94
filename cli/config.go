package cli

import (
	"github.com/pkg/errors"
	"github.com/runabol/mountgate/engine"
	ucli "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const redacted = "[REDACTED]"

func (c *CLI) configCmd() *ucli.Command {
	return &ucli.Command{
		Name:   "config",
		Usage:  "Print the effective configuration",
		Action: c.config,
	}
}

func (c *CLI) config(_ *ucli.Context) error {
	cfg, err := engine.ConfigFromConf()
	if err != nil {
		return err
	}
	if cfg.Readiness.DSN != "" {
		cfg.Readiness.DSN = redacted
	}
	enc := yaml.NewEncoder(c.out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrapf(err, "error encoding config")
	}
	return enc.Close()
}
