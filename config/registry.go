package config

import (
	"sort"
	"sync"

	"github.com/goliatone/go-errors"
)

// Registry maps plugin names to code plugins so providers can reference
// them by name.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]*Plugin
}

// NewRegistry creates a registry holding plugins. It panics on an invalid or
// duplicated plugin, use Register to handle the error.
func NewRegistry(plugins ...*Plugin) *Registry {
	r := &Registry{plugins: make(map[string]*Plugin)}
	if err := r.Register(plugins...); err != nil {
		panic(err)
	}
	return r
}

// Register adds plugins to the registry.
func (r *Registry) Register(plugins ...*Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range plugins {
		if p == nil {
			return errors.New("cannot register nil plugin", errors.CategoryBadInput).
				WithTextCode("INVALID_PLUGIN")
		}
		if p.Name == "" {
			return errors.New("plugin has empty name", errors.CategoryBadInput).
				WithTextCode("INVALID_PLUGIN")
		}
		if _, exists := r.plugins[p.Name]; exists {
			return errors.New("plugin already registered", errors.CategoryConflict).
				WithTextCode("DUPLICATE_PLUGIN").
				WithMetadata(map[string]any{
					"plugin": p.Name,
				})
		}
		r.plugins[p.Name] = p
	}
	return nil
}

// Lookup returns the plugin registered under name.
func (r *Registry) Lookup(name string) (*Plugin, error) {
	if r != nil {
		r.mu.RLock()
		p, ok := r.plugins[name]
		r.mu.RUnlock()
		if ok {
			return p, nil
		}
	}
	return nil, errors.New("unknown plugin", errors.CategoryBadInput).
		WithTextCode("UNKNOWN_PLUGIN").
		WithMetadata(map[string]any{
			"plugin":    name,
			"available": r.Names(),
		})
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return []string{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
