package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/runabol/mountgate/health"
	ucli "github.com/urfave/cli/v2"
)

func (c *CLI) healthCmd() *ucli.Command {
	return &ucli.Command{
		Name:   "health",
		Usage:  "Ping the database once using readiness.driver and readiness.dsn",
		Action: c.health,
	}
}

func (c *CLI) health(ctx *ucli.Context) error {
	e, err := c.engine()
	if err != nil {
		return err
	}
	chk, err := e.HealthCheck()
	if err != nil {
		return err
	}
	res := chk.Do(ctx.Context)
	fmt.Fprintf(c.out, "Status: %s\n", res.Status)
	if res.Status != health.StatusUp {
		return errors.Errorf("Health check failed. Status: %s", res.Status)
	}
	return nil
}
