package config

import (
	"dario.cat/mergo"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-storecfg/logger"
)

// DefaultPluginLimit bounds how many plugins a single Merge folds. Plugins
// that keep contributing plugins would otherwise never terminate.
var DefaultPluginLimit = 1024

// Options controls Merge. Zero fields take the value from DefaultOptions.
type Options struct {
	Production  bool
	Validator   Validator
	Logger      logger.Logger
	PluginLimit int
	CycleGuard  bool
}

type Option func(*Options)

// DefaultOptions returns development mode settings.
func DefaultOptions() Options {
	return Options{
		Validator:   CollectValidator(),
		Logger:      logger.NewDefaultLogger("config"),
		PluginLimit: DefaultPluginLimit,
	}
}

// WithProduction skips shape validation when v is true.
func WithProduction(v bool) Option {
	return func(o *Options) {
		o.Production = v
	}
}

func WithValidator(v Validator) Option {
	return func(o *Options) {
		o.Validator = v
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithPluginLimit sets the maximum number of plugins folded by one Merge.
// Values below 1 keep the default.
func WithPluginLimit(n int) Option {
	return func(o *Options) {
		o.PluginLimit = n
	}
}

// WithCycleGuard skips a plugin pointer that was already folded in the same
// Merge, so a plugin that appends itself is applied once.
func WithCycleGuard() Option {
	return func(o *Options) {
		o.CycleGuard = true
	}
}

func resolveOptions(opts []Option) (Options, error) {
	o := Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.PluginLimit < 1 {
		o.PluginLimit = 0
	}
	// only zero fields are filled, a logger or validator set by an option is
	// never descended into
	if err := mergo.Merge(&o, DefaultOptions(), mergo.WithoutDereference); err != nil {
		return Options{}, errors.Wrap(err, errors.CategoryInternal, "failed to resolve merge options").
			WithTextCode("OPTIONS_RESOLVE_FAILED")
	}
	return o, nil
}
