package config

import (
	"context"
	goerrors "errors"
	"io/fs"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-storecfg/koanf/providers/env"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ProviderBuilder creates a Provider bound to a Loader.
type ProviderBuilder func(*Loader) (Provider, error)

type ProviderType string

func (p ProviderType) String() string {
	return string(p)
}

const (
	ProviderTypeDefault   ProviderType = "default"
	ProviderTypeLocalFile ProviderType = "file"
	ProviderTypeEnv       ProviderType = "env"
	ProviderTypeFlag      ProviderType = "pflag"
	ProviderTypeStruct    ProviderType = "struct"
)

func (p ProviderType) validate() error {
	switch p {
	case ProviderTypeDefault, ProviderTypeLocalFile, ProviderTypeEnv, ProviderTypeFlag, ProviderTypeStruct:
		return nil
	}
	return errors.New("invalid provider type", errors.CategoryValidation).
		WithTextCode("INVALID_PROVIDER_TYPE").
		WithMetadata(map[string]any{
			"provider_type": string(p),
		})
}

// Provider loads one layer of the init config into koanf.
type Provider interface {
	Type() ProviderType
	Priority() int
	Validate() error
	Load(context.Context, *koanf.Koanf) error
}

// Priority orders providers, lower loads first so higher wins.
type Priority int

// WithOffset shifts a priority, e.g. PriorityConfig.WithOffset(10) to load a
// local override file after the main one.
func (p Priority) WithOffset(offset int) Priority {
	return Priority(int(p) + offset)
}

var (
	PriorityDefaults Priority = 0
	PriorityStruct   Priority = 10
	PriorityConfig   Priority = 20
	PriorityEnv      Priority = 30
	PriorityFlags    Priority = 40
)

var (
	DefaultEnvPrefix    = "APP_"
	DefaultEnvDelimiter = "__"
)

type source struct {
	order        int
	providerType ProviderType
	load         func(context.Context, *koanf.Koanf) error
}

func (s *source) Type() ProviderType { return s.providerType }

func (s *source) Priority() int { return s.order }

func (s *source) Validate() error { return s.providerType.validate() }

func (s *source) Load(ctx context.Context, k *koanf.Koanf) error {
	return s.load(ctx, k)
}

func getOrder(def Priority, orders ...int) int {
	if len(orders) > 0 {
		return orders[0]
	}
	return int(def)
}

var mergeProviderValues = koanf.WithMergeFunc(MergeProviderValues)

// DefaultValuesProvider loads a plain map, keys may use dotted paths.
func DefaultValuesProvider(values map[string]any, order ...int) ProviderBuilder {
	return func(l *Loader) (Provider, error) {
		return &source{
			providerType: ProviderTypeDefault,
			order:        getOrder(PriorityDefaults, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				if err := k.Load(confmap.Provider(values, l.delimiter), nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load default values").
						WithTextCode("DEFAULT_VALUES_LOAD_FAILED").
						WithMetadata(map[string]any{
							"values_count": len(values),
						})
				}
				return nil
			},
		}, nil
	}
}

// FileProvider loads a JSON, YAML or TOML file, picked by extension.
func FileProvider(path string, order ...int) ProviderBuilder {
	filetype := InferConfigFileType(path)

	return func(l *Loader) (Provider, error) {
		return &source{
			providerType: ProviderTypeLocalFile,
			order:        getOrder(PriorityConfig, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				l.logger.Debug("file provider %s", path)
				if err := k.Load(file.Provider(path), filetype.Parser(), mergeProviderValues); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load init config file").
						WithTextCode("FILE_LOAD_FAILED").
						WithMetadata(map[string]any{
							"filepath":  path,
							"file_type": string(filetype),
						})
				}
				return nil
			},
		}, nil
	}
}

// EnvProvider loads variables such as APP_NAME or APP_PLUGINS__0=loading.
// prefix is stripped, keys are lower cased and split on delim.
func EnvProvider(prefix, delim string, order ...int) ProviderBuilder {
	return func(l *Loader) (Provider, error) {
		return &source{
			providerType: ProviderTypeEnv,
			order:        getOrder(PriorityEnv, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				prv := env.Provider(prefix, l.delimiter, func(s string) string {
					return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), strings.ToLower(delim), l.delimiter)
				})
				l.logger.Debug("env provider %s*", prefix)
				if err := k.Load(prv, json.Parser(), mergeProviderValues); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
						WithTextCode("ENV_LOAD_FAILED").
						WithMetadata(map[string]any{
							"prefix":    prefix,
							"delimiter": delim,
						})
				}
				return nil
			},
		}, nil
	}
}

// FlagsProvider loads flags that were explicitly set on flagset.
func FlagsProvider(flagset *pflag.FlagSet, order ...int) ProviderBuilder {
	return func(l *Loader) (Provider, error) {
		if flagset == nil {
			return nil, errors.New("flagset cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_FLAGSET")
		}
		return &source{
			providerType: ProviderTypeFlag,
			order:        getOrder(PriorityFlags, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				l.logger.Debug("flags provider")
				if err := k.Load(posflag.Provider(flagset, l.delimiter, nil), nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from flags").
						WithTextCode("FLAGS_LOAD_FAILED")
				}
				return nil
			},
		}, nil
	}
}

// StructProvider loads a struct using its koanf tags.
func StructProvider(v any, order ...int) ProviderBuilder {
	return func(l *Loader) (Provider, error) {
		if v == nil {
			return nil, errors.New("struct cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_STRUCT")
		}
		return &source{
			providerType: ProviderTypeStruct,
			order:        getOrder(PriorityStruct, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				l.logger.Debug("struct provider")
				if err := k.Load(structs.Provider(v, "koanf"), nil, mergeProviderValues); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from struct").
						WithTextCode("STRUCT_LOAD_FAILED")
				}
				return nil
			},
		}, nil
	}
}

// ErrorFilter reports whether a provider error should be ignored.
type ErrorFilter func(err error) bool

// DefaultErrorFilter ignores the listed errors, or missing files when none
// are given.
func DefaultErrorFilter(allowed ...error) ErrorFilter {
	return func(err error) bool {
		if err == nil {
			return false
		}
		if len(allowed) == 0 {
			return goerrors.Is(err, fs.ErrNotExist)
		}
		for _, a := range allowed {
			if goerrors.Is(err, a) {
				return true
			}
		}
		return false
	}
}

// OptionalProvider wraps f so errors accepted by the filter are ignored.
func OptionalProvider(f ProviderBuilder, filters ...ErrorFilter) ProviderBuilder {
	ignore := DefaultErrorFilter()
	if len(filters) > 0 && filters[0] != nil {
		ignore = filters[0]
	}

	return func(l *Loader) (Provider, error) {
		base, err := f(l)
		if err != nil {
			return nil, err
		}
		return &source{
			providerType: base.Type(),
			order:        base.Priority(),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				if err := base.Load(ctx, k); err != nil && !ignore(err) {
					return err
				}
				return nil
			},
		}, nil
	}
}
