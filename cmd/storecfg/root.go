package main

import (
	"context"

	"github.com/goliatone/go-storecfg/config"
	"github.com/goliatone/go-storecfg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	defaultEnvPrefix = "STORECFG_"
	defaultOutput    = "json"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath string
	envPrefix  string
	output     string
	logLevel   string

	// initFlags only carries flags that are init config keys, it is handed
	// to the flags provider as is.
	initFlags *pflag.FlagSet
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "storecfg",
		Short: "Merge and validate store init configs",
		Long: `storecfg loads a store init config from a file, the environment and flags,
folds the fragments of every plugin it declares and prints the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", config.DefaultConfigFilepath, "init config file (json, yaml or toml)")
	flags.StringVar(&o.envPrefix, "env-prefix", defaultEnvPrefix, "prefix of environment variables read as init config keys")
	flags.StringVarP(&o.output, "output", "o", defaultOutput, "output format: json, yaml, toml or table")
	flags.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	o.initFlags = pflag.NewFlagSet("init", pflag.ContinueOnError)
	o.initFlags.String(config.KeyName, "", "store name")
	o.initFlags.Bool(config.KeyProduction, false, "skip shape validation")
	flags.AddFlagSet(o.initFlags)

	cmd.AddCommand(
		newMergeCmd(o),
		newValidateCmd(o),
		newPluginsCmd(),
	)

	return cmd
}

func (o *rootOptions) newLogger() (logger.Logger, error) {
	level, err := zerolog.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	return logger.NewConsoleLogger("storecfg", level), nil
}

func (o *rootOptions) newLoader() (*config.Loader, error) {
	lgr, err := o.newLogger()
	if err != nil {
		return nil, err
	}

	return config.NewLoader().
		WithLogger(lgr).
		WithRegistry(demoRegistry(lgr)).
		WithProvider(
			config.OptionalProvider(config.FileProvider(o.configPath)),
			config.EnvProvider(o.envPrefix, config.DefaultEnvDelimiter),
			config.FlagsProvider(o.initFlags),
		), nil
}

func (o *rootOptions) load(ctx context.Context, opts ...config.Option) (*config.Config, error) {
	loader, err := o.newLoader()
	if err != nil {
		return nil, err
	}
	return loader.WithMergeOptions(opts...).Load(ctx)
}
