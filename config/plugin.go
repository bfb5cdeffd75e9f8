package config

// Plugin contributes configuration through its Config source.
// A nil Config contributes nothing.
type Plugin struct {
	Name   string
	Config ConfigSource
}

// ConfigSource produces a plugin fragment. It is either Static or Dynamic.
type ConfigSource interface {
	resolve(cfg *Config) *Fragment
}

type staticSource struct {
	fragment Fragment
}

func (s staticSource) resolve(*Config) *Fragment {
	f := s.fragment
	return &f
}

// DynamicFunc receives the configuration as accumulated when the plugin is
// folded and returns its fragment. Returning nil contributes nothing.
type DynamicFunc func(cfg *Config) *Fragment

func (fn DynamicFunc) resolve(cfg *Config) *Fragment {
	if fn == nil {
		return nil
	}
	return fn(cfg)
}

// Static wraps a fixed fragment.
func Static(f Fragment) ConfigSource {
	return staticSource{fragment: f}
}

// Dynamic wraps a function evaluated lazily during the fold.
func Dynamic(fn func(cfg *Config) *Fragment) ConfigSource {
	return DynamicFunc(fn)
}

// NewPlugin is a convenience constructor.
func NewPlugin(name string, src ConfigSource) *Plugin {
	return &Plugin{Name: name, Config: src}
}

// Fragment resolves the plugin source against cfg.
func (p *Plugin) Fragment(cfg *Config) *Fragment {
	if p == nil || p.Config == nil {
		return nil
	}
	return p.Config.resolve(cfg)
}
