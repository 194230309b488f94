// Package gate decides whether the external volume that backs the
// database is attached before anything else is allowed to run.
package gate

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/runabol/mountgate/internal/logging"
	"github.com/shirou/gopsutil/v3/disk"
)

// ErrVolumeMissing is returned when the volume path does not denote
// an attached volume. It is the only condition that maps to exit code 1.
var ErrVolumeMissing = errors.New("volume not connected")

// MissingMessage is the diagnostic printed when the volume is not attached.
const MissingMessage = "外接硬碟未連接"

// Checker reports whether path currently denotes an attached volume.
// Implementations return an error wrapping ErrVolumeMissing when it
// does not.
type Checker interface {
	Check(ctx context.Context, path string) error
}

type Gate struct {
	path    string
	checker Checker
	out     io.Writer
}

type Config struct {
	Path    string
	Checker Checker
	Out     io.Writer
}

func New(cfg Config) *Gate {
	if cfg.Checker == nil {
		cfg.Checker = DirChecker{}
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Gate{
		path:    cfg.Path,
		checker: cfg.Checker,
		out:     cfg.Out,
	}
}

// Check runs the configured checker once. There is no retry: a missing
// volume is reported on the diagnostic writer and returned to the caller.
func (g *Gate) Check(ctx context.Context) error {
	if err := g.checker.Check(ctx, g.path); err != nil {
		if errors.Is(err, ErrVolumeMissing) {
			fmt.Fprintln(g.out, MissingMessage)
		}
		return err
	}
	g.logUsage(ctx)
	return nil
}

func (g *Gate) logUsage(ctx context.Context) {
	logger := logging.Ctx(ctx)
	usage, err := disk.UsageWithContext(ctx, g.path)
	if err != nil {
		logger.Warn().Err(err).Msgf("unable to read usage of %s", g.path)
		return
	}
	logger.Info().
		Str("path", g.path).
		Str("fstype", usage.Fstype).
		Str("free", units.HumanSize(float64(usage.Free))).
		Str("total", units.HumanSize(float64(usage.Total))).
		Msgf("volume %s is connected", g.path)
}

// DirChecker accepts any existing directory. A path that cannot be
// stat-ed for any reason counts as a missing volume.
type DirChecker struct{}

func (DirChecker) Check(_ context.Context, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(ErrVolumeMissing, "%s: %v", path, err)
	}
	if !fi.IsDir() {
		return errors.Wrapf(ErrVolumeMissing, "%s is not a directory", path)
	}
	return nil
}

// MountpointChecker additionally requires path to be the root of a
// mounted filesystem, so an empty directory left behind after the
// device was detached is not mistaken for the volume.
type MountpointChecker struct{}

func (MountpointChecker) Check(ctx context.Context, path string) error {
	if err := (DirChecker{}).Check(ctx, path); err != nil {
		return err
	}
	ok, err := IsMountpoint(path)
	if err != nil {
		return errors.Wrapf(ErrVolumeMissing, "error checking mountpoint %s: %v", path, err)
	}
	if !ok {
		return errors.Wrapf(ErrVolumeMissing, "%s is not a mountpoint", path)
	}
	return nil
}
