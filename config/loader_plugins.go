package config

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-storecfg/cfgx"
)

// pluginDecl is a plugin declared by a provider. Providers can only carry
// data, so declared plugins contribute models, nested plugins and initial
// state.
type pluginDecl struct {
	Name   string        `koanf:"name"`
	Config *fragmentDecl `koanf:"config"`
}

type fragmentDecl struct {
	Models  map[string]any `koanf:"models"`
	Plugins []any          `koanf:"plugins"`
	Redux   *struct {
		InitialState map[string]any `koanf:"initialState"`
	} `koanf:"redux"`
}

// resolvePlugins replaces plugin declarations under the plugins key with
// plugins and appends the code plugins. Any slice is accepted, so typed
// slices from the default values or struct providers resolve too. A value
// that is not a list is left for Merge to report, unless code plugins would
// have to be appended to it.
func (l *Loader) resolvePlugins(init InitConfig) error {
	value, declared := init[KeyPlugins]

	list, ok := asList(value)
	if !ok {
		if len(l.plugins) > 0 {
			return errors.New("plugins must be a list to append code plugins", errors.CategoryBadInput).
				WithTextCode("PLUGIN_DECODE_FAILED").
				WithMetadata(map[string]any{
					"path":         KeyPlugins,
					"type":         fmt.Sprintf("%T", value),
					"code_plugins": len(l.plugins),
				})
		}
		return nil
	}

	plugins := make([]any, 0, len(list)+len(l.plugins))
	for i, item := range list {
		p, err := l.resolvePlugin(item, fmt.Sprintf("%s[%d]", KeyPlugins, i))
		if err != nil {
			return err
		}
		plugins = append(plugins, p)
	}
	for _, p := range l.plugins {
		plugins = append(plugins, p)
	}

	if !declared && len(plugins) == 0 {
		return nil
	}
	init[KeyPlugins] = plugins
	return nil
}

// asList returns the elements of any slice or array. nil is an empty list.
func asList(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func (l *Loader) resolvePlugin(item any, path string) (any, error) {
	switch v := item.(type) {
	case *Plugin, Plugin:
		return v, nil
	case string:
		return l.lookup(v, path)
	case map[string]any:
		decl, err := cfgx.Build[pluginDecl](v,
			cfgx.WithTagName[pluginDecl]("koanf"),
			cfgx.WithStrictKeys[pluginDecl](),
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to decode plugin declaration").
				WithTextCode("PLUGIN_DECODE_FAILED").
				WithMetadata(map[string]any{
					"path": path,
				})
		}
		if decl.Config == nil {
			return l.lookup(decl.Name, path)
		}
		return l.declaredPlugin(decl, path)
	}
	// not a declaration, Merge reports the element
	return item, nil
}

func (l *Loader) lookup(name, path string) (*Plugin, error) {
	p, err := l.registry.Lookup(name)
	if err != nil {
		var e *errors.Error
		if errors.As(err, &e) {
			return nil, e.WithMetadata(map[string]any{"path": path})
		}
		return nil, err
	}
	return p, nil
}

func (l *Loader) declaredPlugin(decl pluginDecl, path string) (*Plugin, error) {
	fragment := Fragment{Models: Models(decl.Config.Models)}

	for i, item := range decl.Config.Plugins {
		nested, err := l.resolvePlugin(item, fmt.Sprintf("%s.config.plugins[%d]", path, i))
		if err != nil {
			return nil, err
		}
		p, ok := nested.(*Plugin)
		if !ok {
			return nil, errors.New("nested plugin must be a name or a declaration", errors.CategoryBadInput).
				WithTextCode("PLUGIN_DECODE_FAILED").
				WithMetadata(map[string]any{
					"path": fmt.Sprintf("%s.config.plugins[%d]", path, i),
				})
		}
		fragment.Plugins = append(fragment.Plugins, p)
	}

	if decl.Config.Redux != nil {
		fragment.Redux = &StateFragment{InitialState: decl.Config.Redux.InitialState}
	}

	return NewPlugin(decl.Name, Static(fragment)), nil
}
