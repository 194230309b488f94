package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const envPrefix = "MOUNTGATE_"

var konf = koanf.New(".")
var logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

var defaultConfigPaths = []string{
	"config.local.toml",
	"config.toml",
	"~/mountgate/config.toml",
	"/etc/mountgate/config.toml",
}

// LoadConfig loads the first config file found and then overlays
// MOUNTGATE_* environment variables on top of it. Explicit paths
// (e.g. from the --config flag) take precedence over MOUNTGATE_CONFIG,
// which takes precedence over the default search paths. A missing file
// is only an error when the location was given explicitly.
func LoadConfig(paths ...string) error {
	konf = koanf.New(".")
	explicit := len(paths) > 0
	if !explicit {
		if userConfig := os.Getenv(envPrefix + "CONFIG"); userConfig != "" {
			paths = []string{userConfig}
			explicit = true
		} else {
			paths = defaultConfigPaths
		}
	}
	loaded, err := loadFirst(paths)
	if err != nil {
		return err
	}
	if err := konf.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return errors.Wrapf(err, "error loading config from env")
	}
	if loaded {
		return nil
	}
	errMsg := fmt.Sprintf("could not find config file in any of the following paths: %s", strings.Join(paths, ","))
	if explicit {
		return errors.New(errMsg)
	}
	logger.Debug().Msg(errMsg)
	return nil
}

func loadFirst(paths []string) (bool, error) {
	for _, f := range paths {
		f = expandHome(f)
		err := konf.Load(file.Provider(f), toml.Parser())
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, errors.Wrapf(err, "error loading config from %s", f)
		}
		logger.Debug().Msgf("Config loaded from %s", f)
		return true, nil
	}
	return false, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~/"))
}

func String(key string) string {
	return konf.String(key)
}

func StringDefault(key, dv string) string {
	v := String(key)
	if v != "" {
		return v
	}
	return dv
}

func Bool(key string) bool {
	return konf.Bool(key)
}

func BoolDefault(key string, dv bool) bool {
	v := konf.Get(key)
	if v == nil {
		return dv
	}
	return Bool(key)
}

// DurationDefault accepts either a Go duration string ("5s", "500ms")
// or a plain number of seconds. A value that is set but cannot be parsed
// is an error.
func DurationDefault(key string, dv time.Duration) (time.Duration, error) {
	v := konf.Get(key)
	if v == nil {
		return dv, nil
	}
	switch n := v.(type) {
	case int64:
		return time.Duration(n) * time.Second, nil
	case int:
		return time.Duration(n) * time.Second, nil
	case float64:
		return time.Duration(n * float64(time.Second)), nil
	}
	s := strings.TrimSpace(konf.String(key))
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration for %s: %q", key, s)
	}
	return d, nil
}
