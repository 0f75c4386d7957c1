package pluginhost

import (
	"time"

	"codeberg.org/mutker/carconsole/internal/errors"
)

const (
	defaultDir         = "plugins"
	defaultLoadTimeout = 5 * time.Second
	defaultConfigFile  = "plugin_configs.json"
	defaultDirPerm     = 0o755
	defaultFilePerm    = 0o644
)

// nativeExtensions are the file suffixes considered plugin candidates.
var nativeExtensions = []string{".so", ".dylib", ".dll"}

type Config struct {
	Dir         string
	LoadTimeout time.Duration
	ConfigFile  string
}

func DefaultConfig() Config {
	return Config{
		Dir:         defaultDir,
		LoadTimeout: defaultLoadTimeout,
		ConfigFile:  defaultConfigFile,
	}
}

func (c Config) Validate() error {
	if c.LoadTimeout <= 0 {
		return errors.New(errors.ErrInvalidInterval).WithData("load timeout " + c.LoadTimeout.String())
	}
	return nil
}
