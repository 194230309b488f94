package service

import (
	"context"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/runabol/mountgate/internal/logging"
)

const (
	ManagerBrew      = "brew"
	ManagerSystemctl = "systemctl"
	ManagerService   = "service"
	ManagerLaunchctl = "launchctl"

	namePlaceholder = "{{name}}"
)

var presets = map[string][]string{
	ManagerBrew:      {"brew", "services", "start", namePlaceholder},
	ManagerSystemctl: {"systemctl", "start", namePlaceholder},
	ManagerService:   {"service", namePlaceholder, "start"},
	ManagerLaunchctl: {"launchctl", "start", namePlaceholder},
}

// Command builds the process for a service manager invocation.
type Command func(ctx context.Context, name string, args ...string) *exec.Cmd

// ExecManager starts services by running the host's service manager
// command line tool.
type ExecManager struct {
	argv    []string
	command Command
}

type ExecConfig struct {
	// Manager selects one of the built-in command lines.
	Manager string
	// CMD overrides Manager with a custom command line. Every {{name}}
	// is replaced with the service name.
	CMD     string
	Command Command
}

func NewExecManager(cfg ExecConfig) (*ExecManager, error) {
	var argv []string
	if cfg.CMD != "" {
		parts, err := shlex.Split(cfg.CMD)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid service command: %s", cfg.CMD)
		}
		if len(parts) == 0 {
			return nil, errors.Errorf("invalid service command: %s", cfg.CMD)
		}
		argv = parts
	} else {
		preset, ok := presets[cfg.Manager]
		if !ok {
			return nil, errors.Errorf("unknown service manager: %s", cfg.Manager)
		}
		argv = preset
	}
	if cfg.Command == nil {
		cfg.Command = func(_ context.Context, name string, args ...string) *exec.Cmd {
			return exec.Command(name, args...)
		}
	}
	return &ExecManager{
		argv:    argv,
		command: cfg.Command,
	}, nil
}

// Args returns the command line that starts the named service.
func (m *ExecManager) Args(name string) []string {
	args := make([]string, len(m.argv))
	for i, a := range m.argv {
		args[i] = strings.ReplaceAll(a, namePlaceholder, name)
	}
	return args
}

func (m *ExecManager) Start(ctx context.Context, name string) error {
	args := m.Args(name)
	cmdline := strings.Join(args, " ")
	logger := logging.Ctx(ctx)
	logger.Debug().Msgf("running %s", cmdline)

	cmd := m.command(ctx, args[0], args[1:]...)
	out := logging.NewZerologWriter(logger, name, zerolog.DebugLevel)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(ErrServiceStartFailed, "%s: %v", cmdline, err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- cmd.Wait()
	}()
	select {
	case err := <-errChan:
		out.Flush()
		if err != nil {
			return errors.Wrapf(ErrServiceStartFailed, "%s: %v", cmdline, err)
		}
	case <-ctx.Done():
		if err := cmd.Process.Kill(); err != nil {
			return errors.Wrapf(err, "error cancelling %s", cmdline)
		}
		return ctx.Err()
	}
	return nil
}
