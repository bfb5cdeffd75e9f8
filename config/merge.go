package config

import (
	"fmt"
	"maps"

	"github.com/goliatone/go-errors"
)

// Merge builds a Config from init and folds in the fragments of every plugin.
//
// Caller keys win over the defaults. Outside production the result is shape
// checked and the configured Validator decides whether failures abort. Values
// of the wrong shape are never coerced: they are moved to Extra under their
// original key and the typed field keeps its default.
//
// A nil value, untyped or a typed nil map or slice, counts as absent: the
// default is kept and no violation is reported, so "plugins": null in a JSON
// file is accepted.
//
// Plugins are folded in order over the live plugin slice, so plugins appended
// by a fragment are folded later in the same call.
func Merge(init InitConfig, opts ...Option) (*Config, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	cfg, checks := newConfig(init)

	if !o.Production {
		if err := o.Validator.Validate(checks...); err != nil {
			return nil, err
		}
	}

	if err := cfg.foldPlugins(o); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustMerge is like Merge but panics on error.
func MustMerge(init InitConfig, opts ...Option) *Config {
	cfg, err := Merge(init, opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

func newConfig(init InitConfig) (*Config, []Check) {
	cfg := &Config{
		Models:  Models{},
		Plugins: []*Plugin{},
		Extra:   map[string]any{},
		Redux: StateConfig{
			Reducers:     map[string]Reducer{},
			RootReducers: map[string]Reducer{},
			Enhancers:    []Enhancer{},
			Middlewares:  []Middleware{},
			Extra:        map[string]any{},
		},
	}

	var badPlugins, badModels bool

	for key, value := range init {
		switch key {
		case KeyName:
			if name, ok := asName(value); ok {
				cfg.Name = name
			} else {
				cfg.Extra[key] = value
			}
		case KeyModels:
			if value == nil {
				continue
			}
			if models, ok := asModels(value); ok {
				cfg.Models = models
			} else {
				badModels = true
				cfg.Extra[key] = value
			}
		case KeyPlugins:
			if value == nil {
				continue
			}
			if plugins, ok := asPlugins(value); ok {
				cfg.Plugins = plugins
			} else {
				badPlugins = true
				cfg.Extra[key] = value
			}
		case KeyRedux:
			// handled below, devtool options need the final name
		default:
			cfg.Extra[key] = value
		}
	}

	checks := []Check{
		{Failed: badPlugins, Message: msgPlugins},
		{Failed: badModels, Message: msgModels},
	}

	checks = append(checks, cfg.overlayRedux(init[KeyRedux])...)

	return cfg, checks
}

func (c *Config) overlayRedux(value any) []Check {
	var (
		badReducers, badMiddlewares, badEnhancers bool
		badCombine, badCreate                     bool
		devtools                                  map[string]any
	)

	redux, ok := asMap(value)
	if !ok && value != nil {
		c.Extra[KeyRedux] = value
	}

	r := &c.Redux
	for key, v := range redux {
		switch key {
		case KeyReducers:
			if v == nil {
				continue
			}
			if reducers, ok := asReducers(v); ok {
				r.Reducers = reducers
			} else {
				badReducers = true
				r.Extra[key] = v
			}
		case KeyRootReducers:
			if v == nil {
				continue
			}
			if reducers, ok := asReducers(v); ok {
				r.RootReducers = reducers
			} else {
				r.Extra[key] = v
			}
		case KeyEnhancers:
			if v == nil {
				continue
			}
			if enhancers, ok := asEnhancers(v); ok {
				r.Enhancers = enhancers
			} else {
				badEnhancers = true
				r.Extra[key] = v
			}
		case KeyMiddlewares:
			if v == nil {
				continue
			}
			if middlewares, ok := asMiddlewares(v); ok {
				r.Middlewares = middlewares
			} else {
				badMiddlewares = true
				r.Extra[key] = v
			}
		case KeyInitialState:
			if v == nil {
				continue
			}
			if state, ok := asMap(v); ok {
				r.InitialState = maps.Clone(state)
			} else {
				r.Extra[key] = v
			}
		case KeyCombineReducers:
			if v == nil {
				continue
			}
			if fn, ok := asReducersMapper(v); ok {
				r.CombineReducers = fn
			} else {
				badCombine = true
				r.Extra[key] = v
			}
		case KeyCreateStore:
			if v == nil {
				continue
			}
			if fn, ok := asStoreCreator(v); ok {
				r.CreateStore = fn
			} else {
				badCreate = true
				r.Extra[key] = v
			}
		case KeyDevtoolOptions:
			if opts, ok := asMap(v); ok {
				devtools = opts
			} else if v != nil {
				r.Extra[key] = v
			}
		default:
			r.Extra[key] = v
		}
	}

	r.DevtoolOptions = map[string]any{KeyName: c.Name}
	maps.Copy(r.DevtoolOptions, devtools)

	return []Check{
		{Failed: badReducers, Message: msgReducers},
		{Failed: badMiddlewares, Message: msgMiddlewares},
		{Failed: badEnhancers, Message: msgEnhancers},
		{Failed: badCombine, Message: msgCombineReducers},
		{Failed: badCreate, Message: msgCreateStore},
	}
}

func (c *Config) foldPlugins(o Options) error {
	var seen map[*Plugin]struct{}
	if o.CycleGuard {
		seen = map[*Plugin]struct{}{}
	}

	// c.Plugins grows while we iterate, read its length on every pass
	for i := 0; i < len(c.Plugins); i++ {
		if i >= o.PluginLimit {
			return errors.New("plugin limit exceeded, plugins may be including each other", errors.CategoryOperation).
				WithTextCode("PLUGIN_LIMIT_EXCEEDED").
				WithMetadata(map[string]any{
					"limit":   o.PluginLimit,
					"pending": len(c.Plugins) - i,
				})
		}

		plugin := c.Plugins[i]
		if seen != nil && plugin != nil {
			if _, ok := seen[plugin]; ok {
				o.Logger.Debug("plugin %q already folded, skipping", plugin.Name)
				continue
			}
			seen[plugin] = struct{}{}
		}

		fragment := plugin.Fragment(c)
		if fragment == nil {
			continue
		}

		o.Logger.Debug("folding plugin %d %q", i, pluginName(plugin))
		c.fold(fragment)
	}
	return nil
}

func (c *Config) fold(f *Fragment) {
	c.Models = ShallowMerge(c.Models, f.Models)
	c.Plugins = append(c.Plugins, f.Plugins...)

	if f.Redux == nil {
		return
	}

	r, next := &c.Redux, f.Redux
	r.InitialState = ShallowMerge(r.InitialState, next.InitialState)
	r.Reducers = ShallowMerge(r.Reducers, next.Reducers)
	// root reducers come from the fragment reducers, next.RootReducers is not read
	r.RootReducers = ShallowMerge(r.RootReducers, next.Reducers)
	r.Enhancers = append(r.Enhancers, next.Enhancers...)
	r.Middlewares = append(r.Middlewares, next.Middlewares...)
	if r.CombineReducers == nil {
		r.CombineReducers = next.CombineReducers
	}
	if r.CreateStore == nil {
		r.CreateStore = next.CreateStore
	}
}

func pluginName(p *Plugin) string {
	if p == nil || p.Name == "" {
		return "<anonymous>"
	}
	return p.Name
}

func asName(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case fmt.Stringer:
		return n.String(), true
	case nil:
		return "", true
	}
	return "", false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case InitConfig:
		return m, true
	case Models:
		return m, true
	}
	return nil, false
}

func asModels(v any) (Models, bool) {
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	if m == nil {
		return Models{}, true
	}
	return Models(maps.Clone(m)), true
}

func asPlugins(v any) ([]*Plugin, bool) {
	switch list := v.(type) {
	case []*Plugin:
		return append([]*Plugin{}, list...), true
	case []Plugin:
		out := make([]*Plugin, 0, len(list))
		for i := range list {
			p := list[i]
			out = append(out, &p)
		}
		return out, true
	case []any:
		out := make([]*Plugin, 0, len(list))
		for _, item := range list {
			switch p := item.(type) {
			case *Plugin:
				out = append(out, p)
			case Plugin:
				out = append(out, &p)
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

func asReducer(v any) (Reducer, bool) {
	switch fn := v.(type) {
	case Reducer:
		return fn, fn != nil
	case func(any, Action) any:
		return fn, fn != nil
	}
	return nil, false
}

func asReducers(v any) (map[string]Reducer, bool) {
	if typed, ok := v.(map[string]Reducer); ok {
		if typed == nil {
			return map[string]Reducer{}, true
		}
		return maps.Clone(typed), true
	}
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	out := make(map[string]Reducer, len(m))
	for name, item := range m {
		fn, ok := asReducer(item)
		if !ok {
			return nil, false
		}
		out[name] = fn
	}
	return out, true
}

func asEnhancers(v any) ([]Enhancer, bool) {
	switch list := v.(type) {
	case []Enhancer:
		return append([]Enhancer{}, list...), true
	case []any:
		out := make([]Enhancer, 0, len(list))
		for _, item := range list {
			switch fn := item.(type) {
			case Enhancer:
				out = append(out, fn)
			case func(StoreCreator) StoreCreator:
				out = append(out, fn)
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

func asMiddlewares(v any) ([]Middleware, bool) {
	switch list := v.(type) {
	case []Middleware:
		return append([]Middleware{}, list...), true
	case []any:
		out := make([]Middleware, 0, len(list))
		for _, item := range list {
			switch fn := item.(type) {
			case Middleware:
				out = append(out, fn)
			case func(Dispatch) Dispatch:
				out = append(out, fn)
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

func asReducersMapper(v any) (ReducersMapper, bool) {
	switch fn := v.(type) {
	case ReducersMapper:
		return fn, true
	case func(map[string]Reducer) Reducer:
		return fn, true
	}
	return nil, false
}

func asStoreCreator(v any) (StoreCreator, bool) {
	switch fn := v.(type) {
	case StoreCreator:
		return fn, true
	case func(Reducer, any, Enhancer) any:
		return fn, true
	}
	return nil, false
}
