package config

import "sort"

// Describe returns a serializable summary of the configuration. Functions are
// reported by name or count, maps of opaque values are copied as is.
func (c *Config) Describe() map[string]any {
	if c == nil {
		return map[string]any{}
	}

	plugins := make([]string, 0, len(c.Plugins))
	for _, p := range c.Plugins {
		plugins = append(plugins, pluginName(p))
	}

	out := map[string]any{
		KeyName:    c.Name,
		KeyModels:  sortedKeys(c.Models),
		KeyPlugins: plugins,
		KeyRedux: map[string]any{
			KeyReducers:        sortedKeys(c.Redux.Reducers),
			KeyRootReducers:    sortedKeys(c.Redux.RootReducers),
			KeyEnhancers:       len(c.Redux.Enhancers),
			KeyMiddlewares:     len(c.Redux.Middlewares),
			KeyInitialState:    c.Redux.InitialState,
			KeyCombineReducers: c.Redux.CombineReducers != nil,
			KeyCreateStore:     c.Redux.CreateStore != nil,
			KeyDevtoolOptions:  c.Redux.DevtoolOptions,
		},
	}

	if len(c.Extra) > 0 {
		out["extra"] = c.Extra
	}
	if len(c.Redux.Extra) > 0 {
		out[KeyRedux].(map[string]any)["extra"] = c.Redux.Extra
	}

	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
