package config

import (
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-storecfg/cfgx"
)

var (
	DefaultDevtoolMaxAge  = 50
	DefaultDevtoolLatency = 500 * time.Millisecond
)

// DevtoolSettings is a typed view of Redux.DevtoolOptions for plugins that
// install devtools. Unknown options are ignored, the map stays authoritative.
type DevtoolSettings struct {
	Name     string        `mapstructure:"name"`
	Disabled bool          `mapstructure:"disabled"`
	Trace    bool          `mapstructure:"trace"`
	MaxAge   int           `mapstructure:"maxAge"`
	Latency  time.Duration `mapstructure:"latency"`
	Blocked  []string      `mapstructure:"actionsBlacklist"`
}

func (s *DevtoolSettings) validate() error {
	if s.MaxAge < 1 {
		return fmt.Errorf("maxAge must be positive, got %d", s.MaxAge)
	}
	return nil
}

// Devtools decodes the devtool options. Zero argument functions in the
// options are called first, so code can supply values lazily.
func (c *Config) Devtools() (DevtoolSettings, error) {
	defaults := DevtoolSettings{
		MaxAge:  DefaultDevtoolMaxAge,
		Latency: DefaultDevtoolLatency,
	}
	if c == nil {
		return defaults, nil
	}
	defaults.Name = c.Name

	settings, err := cfgx.Build[DevtoolSettings](c.Redux.DevtoolOptions,
		cfgx.WithDefaults(defaults),
		cfgx.WithPreprocessEvalFuncs[DevtoolSettings](),
		cfgx.WithValidator((*DevtoolSettings).validate),
	)
	if err != nil {
		return DevtoolSettings{}, errors.Wrap(err, errors.CategoryValidation, "invalid devtool options").
			WithTextCode("INVALID_DEVTOOL_OPTIONS")
	}
	return settings, nil
}
