package engine

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/runabol/mountgate/conf"
	"github.com/runabol/mountgate/health"
	"github.com/runabol/mountgate/service"
)

const (
	ReadinessSleep = "sleep"
	ReadinessSQL   = "sql"
)

const (
	DefaultVolumePath        = "/Volumes/國道資料"
	DefaultServiceName       = "mysql"
	DefaultServiceManager    = service.ManagerBrew
	DefaultReadinessWait     = time.Second * 5
	DefaultReadinessInterval = time.Millisecond * 500
	DefaultReadinessTimeout  = time.Second * 30
)

type Config struct {
	Volume    VolumeConfig    `yaml:"volume"`
	Service   ServiceConfig   `yaml:"service"`
	Readiness ReadinessConfig `yaml:"readiness"`
}

type VolumeConfig struct {
	Path string `yaml:"path" validate:"required"`
	// Mountpoint requires Path to be the root of a mounted filesystem
	// rather than any existing directory.
	Mountpoint bool `yaml:"mountpoint"`
}

type ServiceConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Manager string `yaml:"manager" validate:"omitempty,oneof=brew systemctl service launchctl"`
	Command string `yaml:"command,omitempty"`
	Strict  bool   `yaml:"strict"`
}

type ReadinessConfig struct {
	Mode     string        `yaml:"mode" validate:"oneof=sleep sql"`
	Wait     time.Duration `yaml:"wait" validate:"min=0"`
	Driver   string        `yaml:"driver,omitempty" validate:"omitempty,oneof=mysql postgres"`
	DSN      string        `yaml:"dsn,omitempty" validate:"required_if=Mode sql"`
	Interval time.Duration `yaml:"interval" validate:"min=0"`
	Timeout  time.Duration `yaml:"timeout" validate:"min=0"`
}

// DefaultConfig is a brew-managed mysql backed by /Volumes/國道資料,
// with 5 seconds of wait.
func DefaultConfig() Config {
	return Config{
		Volume: VolumeConfig{
			Path: DefaultVolumePath,
		},
		Service: ServiceConfig{
			Name:    DefaultServiceName,
			Manager: DefaultServiceManager,
		},
		Readiness: ReadinessConfig{
			Mode:     ReadinessSleep,
			Wait:     DefaultReadinessWait,
			Driver:   health.DriverMySQL,
			Interval: DefaultReadinessInterval,
			Timeout:  DefaultReadinessTimeout,
		},
	}
}

// ConfigFromConf reads the loaded configuration, falling back to
// DefaultConfig for anything not set.
func ConfigFromConf() (Config, error) {
	dc := DefaultConfig()
	wait, err := conf.DurationDefault("readiness.wait", dc.Readiness.Wait)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid configuration")
	}
	interval, err := conf.DurationDefault("readiness.interval", dc.Readiness.Interval)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid configuration")
	}
	timeout, err := conf.DurationDefault("readiness.timeout", dc.Readiness.Timeout)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid configuration")
	}
	return Config{
		Volume: VolumeConfig{
			Path:       conf.StringDefault("volume.path", dc.Volume.Path),
			Mountpoint: conf.BoolDefault("volume.mountpoint", dc.Volume.Mountpoint),
		},
		Service: ServiceConfig{
			Name:    conf.StringDefault("service.name", dc.Service.Name),
			Manager: conf.StringDefault("service.manager", dc.Service.Manager),
			Command: conf.String("service.command"),
			Strict:  conf.BoolDefault("service.strict", dc.Service.Strict),
		},
		Readiness: ReadinessConfig{
			Mode:     conf.StringDefault("readiness.mode", dc.Readiness.Mode),
			Wait:     wait,
			Driver:   conf.StringDefault("readiness.driver", dc.Readiness.Driver),
			DSN:      conf.String("readiness.dsn"),
			Interval: interval,
			Timeout:  timeout,
		},
	}, nil
}

func (c Config) Validate() error {
	validate := validator.New()
	validate.RegisterStructValidation(validateService, ServiceConfig{})
	validate.RegisterStructValidation(validateReadiness, ReadinessConfig{})
	if err := validate.Struct(c); err != nil {
		return errors.Wrapf(err, "invalid configuration")
	}
	return nil
}

func validateService(sl validator.StructLevel) {
	sc := sl.Current().Interface().(ServiceConfig)
	if sc.Manager == "" && sc.Command == "" {
		sl.ReportError(sc.Manager, "Manager", "Manager", "required_without", "Command")
	}
}

func validateReadiness(sl validator.StructLevel) {
	rc := sl.Current().Interface().(ReadinessConfig)
	if rc.Mode != ReadinessSQL {
		return
	}
	if rc.Driver == "" {
		sl.ReportError(rc.Driver, "Driver", "Driver", "required_if", "Mode sql")
	}
	if rc.Interval <= 0 {
		sl.ReportError(rc.Interval, "Interval", "Interval", "gt", "0")
	}
	if rc.Timeout <= 0 {
		sl.ReportError(rc.Timeout, "Timeout", "Timeout", "gt", "0")
	}
}
