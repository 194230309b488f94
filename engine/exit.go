package engine

import (
	"context"

	"github.com/pkg/errors"
	"github.com/runabol/mountgate/gate"
)

const (
	ExitOK            = 0
	ExitVolumeMissing = 1
	// ExitFailure covers configuration errors, strict-mode start
	// failures and readiness timeouts, none of which occur with the
	// default configuration.
	ExitFailure     = 2
	ExitInterrupted = 130
)

// ExitCode maps the outcome of a run to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, gate.ErrVolumeMissing):
		return ExitVolumeMissing
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}
