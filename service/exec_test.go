package service

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func recordingCommand(script string, calls *[][]string) Command {
	return func(_ context.Context, name string, args ...string) *exec.Cmd {
		*calls = append(*calls, append([]string{name}, args...))
		return exec.Command("sh", "-c", script)
	}
}

func TestExecManagerPresets(t *testing.T) {
	for manager, expected := range map[string][]string{
		ManagerBrew:      {"brew", "services", "start", "mysql"},
		ManagerSystemctl: {"systemctl", "start", "mysql"},
		ManagerService:   {"service", "mysql", "start"},
		ManagerLaunchctl: {"launchctl", "start", "mysql"},
	} {
		m, err := NewExecManager(ExecConfig{Manager: manager})
		assert.NoError(t, err)
		assert.Equal(t, expected, m.Args("mysql"))
	}
}

func TestExecManagerUnknown(t *testing.T) {
	_, err := NewExecManager(ExecConfig{Manager: "upstart"})
	assert.Error(t, err)
}

func TestExecManagerCustomCommand(t *testing.T) {
	m, err := NewExecManager(ExecConfig{
		Manager: "unused",
		CMD:     `sudo /usr/local/bin/dbctl --unit "{{name}}.service" up`,
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"sudo", "/usr/local/bin/dbctl", "--unit", "postgresql.service", "up"}, m.Args("postgresql"))
}

func TestExecManagerInvalidCustomCommand(t *testing.T) {
	_, err := NewExecManager(ExecConfig{CMD: `dbctl "unterminated`})
	assert.Error(t, err)
	_, err = NewExecManager(ExecConfig{CMD: "   "})
	assert.Error(t, err)
}

func TestExecManagerStart(t *testing.T) {
	var calls [][]string
	m, err := NewExecManager(ExecConfig{
		Manager: ManagerBrew,
		Command: recordingCommand("echo '==> Successfully started `mysql`'", &calls),
	})
	assert.NoError(t, err)
	err = m.Start(context.Background(), "mysql")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"brew", "services", "start", "mysql"}}, calls)
}

func TestExecManagerStartTwice(t *testing.T) {
	var calls [][]string
	m, err := NewExecManager(ExecConfig{
		Manager: ManagerSystemctl,
		Command: recordingCommand("true", &calls),
	})
	assert.NoError(t, err)
	assert.NoError(t, m.Start(context.Background(), "mysql"))
	assert.NoError(t, m.Start(context.Background(), "mysql"))
	assert.Len(t, calls, 2)
}

func TestExecManagerStartFailed(t *testing.T) {
	var calls [][]string
	m, err := NewExecManager(ExecConfig{
		Manager: ManagerBrew,
		Command: recordingCommand("echo 'Error: Formula mysql is not installed' >&2; exit 1", &calls),
	})
	assert.NoError(t, err)
	err = m.Start(context.Background(), "mysql")
	assert.True(t, errors.Is(err, ErrServiceStartFailed))
}

func TestExecManagerStartNoBinary(t *testing.T) {
	m, err := NewExecManager(ExecConfig{
		CMD: "no_such_service_manager start {{name}}",
	})
	assert.NoError(t, err)
	err = m.Start(context.Background(), "mysql")
	assert.True(t, errors.Is(err, ErrServiceStartFailed))
}

func TestExecManagerStartCancelled(t *testing.T) {
	var calls [][]string
	m, err := NewExecManager(ExecConfig{
		Manager: ManagerBrew,
		Command: recordingCommand("sleep 30", &calls),
	})
	assert.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*200)
	defer cancel()
	err = m.Start(ctx, "mysql")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecManagerStartStreamsOutput(t *testing.T) {
	var calls [][]string
	m, err := NewExecManager(ExecConfig{
		Manager: ManagerBrew,
		Command: recordingCommand("printf '==> Starting\\n==> Started'", &calls),
	})
	assert.NoError(t, err)
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).With().Str("run", "r1").Logger()
	ctx := logger.WithContext(context.Background())
	assert.NoError(t, m.Start(ctx, "mysql"))
	assert.Contains(t, buf.String(), `"message":"==> Starting"`)
	assert.Contains(t, buf.String(), `"message":"==> Started"`)
	assert.Contains(t, buf.String(), `"service":"mysql"`)
	assert.Contains(t, buf.String(), `"run":"r1"`)
}
