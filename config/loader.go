package config

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-storecfg/cfgx"
	"github.com/goliatone/go-storecfg/koanf/solvers"
	"github.com/goliatone/go-storecfg/logger"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/copystructure"
)

var (
	DefaultDelimiter      = "."
	DefaultConfigFilepath = "config/store.json"
	DefaultLoadTimeout    = 30 * time.Second
)

// Keys read by the Loader as Merge options. They are removed from the init
// config before merging, matched case insensitively since env keys are
// lowercased.
const (
	KeyProduction  = "production"
	KeyPluginLimit = "pluginLimit"
	KeyCycleGuard  = "cycleGuard"
)

var loaderKeys = []string{KeyProduction, KeyPluginLimit, KeyCycleGuard}

// Loader reads an init config from providers, resolves the plugins it
// declares and merges the result.
type Loader struct {
	K            *koanf.Koanf
	providers    []Provider
	loaders      []ProviderBuilder
	solvers      []solvers.ConfigSolver
	solverPasses int
	strictMerge  bool
	loadTimeout  time.Duration
	delimiter    string
	configPath   string
	logger       logger.Logger
	registry     *Registry
	plugins      []*Plugin
	mergeOpts    []Option
	production   bool
	config       *Config
}

func NewLoader() *Loader {
	l := &Loader{
		delimiter:    DefaultDelimiter,
		loadTimeout:  DefaultLoadTimeout,
		configPath:   DefaultConfigFilepath,
		logger:       logger.NewDefaultLogger("config"),
		registry:     NewRegistry(),
		solverPasses: 1,
		solvers: []solvers.ConfigSolver{
			solvers.NewVariablesSolver("${", "}"),
			solvers.NewURISolver("@", "://"),
			solvers.NewExpressionSolver("{{", "}}"),
		},
	}

	l.newKoanf()

	return l
}

func (l *Loader) newKoanf() {
	l.K = koanf.NewWithConf(koanf.Conf{
		Delim:       l.delimiter,
		StrictMerge: l.strictMerge,
	})
}

func (l *Loader) WithProvider(factories ...ProviderBuilder) *Loader {
	for _, factory := range factories {
		if factory != nil {
			l.loaders = append(l.loaders, factory)
		}
	}
	return l
}

func (l *Loader) WithConfigPath(p string) *Loader {
	l.configPath = p
	return l
}

func (l *Loader) WithTimeout(timeout time.Duration) *Loader {
	l.loadTimeout = timeout
	return l
}

// WithStrictMerge makes koanf fail when providers disagree on a key type.
func (l *Loader) WithStrictMerge() *Loader {
	l.strictMerge = true
	return l
}

func (l *Loader) WithSolver(slvrs ...solvers.ConfigSolver) *Loader {
	l.solvers = append(l.solvers, slvrs...)
	return l
}

// WithSolvers replaces the solver list, allowing explicit ordering.
func (l *Loader) WithSolvers(slvrs ...solvers.ConfigSolver) *Loader {
	l.solvers = append([]solvers.ConfigSolver{}, slvrs...)
	return l
}

// WithSolverPasses sets the maximum number of solver passes (minimum 1).
func (l *Loader) WithSolverPasses(passes int) *Loader {
	if passes < 1 {
		passes = 1
	}
	l.solverPasses = passes
	return l
}

func (l *Loader) WithLogger(lgr logger.Logger) *Loader {
	l.logger = lgr
	return l
}

// WithRegistry sets the registry used to resolve plugins declared by name.
func (l *Loader) WithRegistry(r *Registry) *Loader {
	if r != nil {
		l.registry = r
	}
	return l
}

// WithPlugins appends code plugins after the ones declared by providers.
func (l *Loader) WithPlugins(plugins ...*Plugin) *Loader {
	l.plugins = append(l.plugins, plugins...)
	return l
}

// WithMergeOptions forwards options to Merge. They are applied after the
// production setting resolved from providers and can override it.
func (l *Loader) WithMergeOptions(opts ...Option) *Loader {
	l.mergeOpts = append(l.mergeOpts, opts...)
	return l
}

// WithProduction sets the mode used when no provider sets the production key.
func (l *Loader) WithProduction(v bool) *Loader {
	l.production = v
	return l
}

// Config returns the result of the last successful Load.
func (l *Loader) Config() *Config {
	return l.config
}

func (l *Loader) MustLoad(ctx context.Context) *Config {
	cfg, err := l.Load(ctx)
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}

func (l *Loader) Load(ctx context.Context) (*Config, error) {
	ctx, cancel := context.WithTimeout(ctx, l.loadTimeout)
	defer cancel()

	// start from an empty koanf so removed keys are gone
	l.newKoanf()

	if err := l.buildProviders(); err != nil {
		return nil, err
	}

	for i, src := range l.providers {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "configuration load cancelled").
				WithTextCode("CONFIG_LOAD_CANCELLED").
				WithMetadata(map[string]any{
					"source_index": i,
				})
		}
		l.logger.Debug("= loading source %s", src.Type())
		if err := src.Load(ctx, l.K); err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from source").
				WithTextCode("CONFIG_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_type":   string(src.Type()),
					"source_index":  i,
					"total_sources": len(l.providers),
				})
		}
	}

	l.solve()

	raw := l.K.Raw()

	settings, err := cfgx.Build[loaderSettings](raw,
		cfgx.WithTagName[loaderSettings]("koanf"),
		cfgx.WithDefaults(loaderSettings{PluginLimit: DefaultPluginLimit}),
		cfgx.WithWeakTyping[loaderSettings](true),
		cfgx.WithDecodeHooks[loaderSettings](optionalBoolDecodeHook()),
		cfgx.WithValidator((*loaderSettings).validate),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to decode loader settings").
			WithTextCode("CONFIG_UNMARSHAL_FAILED").
			WithMetadata(map[string]any{
				"keys": loaderKeys,
			})
	}

	initCfg := InitConfig(raw)
	for key := range initCfg {
		for _, reserved := range loaderKeys {
			if strings.EqualFold(key, reserved) {
				delete(initCfg, key)
			}
		}
	}

	if err := l.resolvePlugins(initCfg); err != nil {
		return nil, err
	}

	opts := []Option{
		WithLogger(l.logger),
		WithProduction(settings.Production.BoolOr(l.production)),
		WithPluginLimit(settings.PluginLimit),
	}
	if settings.CycleGuard {
		opts = append(opts, WithCycleGuard())
	}
	opts = append(opts, l.mergeOpts...)

	cfg, err := Merge(initCfg, opts...)
	if err != nil {
		return nil, err
	}

	l.config = cfg
	return cfg, nil
}

type loaderSettings struct {
	Production  OptionalBool `koanf:"production"`
	PluginLimit int          `koanf:"pluginLimit"`
	CycleGuard  bool         `koanf:"cycleGuard"`
}

func (s *loaderSettings) validate() error {
	if s.PluginLimit < 1 {
		return fmt.Errorf("%s must be positive, got %d", KeyPluginLimit, s.PluginLimit)
	}
	return nil
}

func (l *Loader) buildProviders() error {
	l.providers = nil

	for i, factory := range l.loaders {
		provider, err := factory(l)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create provider").
				WithTextCode("PROVIDER_CREATION_FAILED").
				WithMetadata(map[string]any{
					"factory_index":   i,
					"total_factories": len(l.loaders),
				})
		}
		l.providers = append(l.providers, provider)
	}

	if len(l.providers) == 0 && l.configPath != "" {
		l.logger.Debug("no providers specified, loading default file provider...")
		p, err := OptionalProvider(FileProvider(l.configPath))(l)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create default file provider").
				WithTextCode("DEFAULT_PROVIDER_FAILED").
				WithMetadata(map[string]any{
					"config_path": l.configPath,
				})
		}
		l.providers = append(l.providers, p)
	}

	for i, src := range l.providers {
		if err := src.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "invalid provider source type").
				WithTextCode("INVALID_PROVIDER_TYPE").
				WithMetadata(map[string]any{
					"source_type":    string(src.Type()),
					"provider_index": i,
				})
		}
	}

	sort.SliceStable(l.providers, func(i, j int) bool {
		return l.providers[i].Priority() < l.providers[j].Priority()
	})

	return nil
}

func (l *Loader) solve() {
	if len(l.solvers) == 0 {
		return
	}
	for pass := 0; pass < l.solverPasses; pass++ {
		before, ok := snapshotConfig(l.K)
		for _, solver := range l.solvers {
			solver.Solve(l.K)
		}
		if !ok {
			continue
		}
		if reflect.DeepEqual(before, l.K.Raw()) {
			break
		}
	}
}

func snapshotConfig(k *koanf.Koanf) (any, bool) {
	if k == nil {
		return nil, false
	}
	raw := k.Raw()
	cloned, err := copystructure.Copy(raw)
	if err != nil {
		return raw, false
	}
	return cloned, true
}
