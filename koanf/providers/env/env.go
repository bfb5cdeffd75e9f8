// Package env is a koanf provider for environment variables that, unlike the
// stock provider, understands numeric path segments as array indices:
//
//	APP_PLUGINS__0__NAME=loading
//	APP_PLUGINS__1__NAME=devtools
//
// becomes {"plugins": [{"name": "loading"}, {"name": "devtools"}]}.
package env

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/sjson"
)

// ErrReadNotSupported is returned by Read, use ReadBytes with a JSON parser.
var ErrReadNotSupported = errors.New("env provider does not support Read, use ReadBytes")

// Env implements koanf.Provider.
type Env struct {
	prefix  string
	delim   string
	cb      func(key string, value string) (string, any)
	environ func() []string
}

// Provider captures variables starting with prefix (all when empty). cb may
// rename keys, returning "" drops the variable. Key segments are split on
// delim.
func Provider(prefix, delim string, cb func(s string) string) *Env {
	e := &Env{prefix: prefix, delim: delim, environ: os.Environ}
	if cb != nil {
		e.cb = func(key string, value string) (string, any) {
			return cb(key), value
		}
	}
	return e
}

// ProviderWithValue is like Provider but cb may also replace the value.
func ProviderWithValue(prefix, delim string, cb func(key string, value string) (string, any)) *Env {
	return &Env{prefix: prefix, delim: delim, cb: cb, environ: os.Environ}
}

// ReadBytes returns the captured variables as a JSON document.
func (e *Env) ReadBytes() ([]byte, error) {
	vars := map[string]string{}
	for _, kv := range e.environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, e.prefix) {
			continue
		}
		vars[key] = value
	}

	// sorted so array indices are written in order
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := "{}"
	for _, k := range keys {
		key, value := k, any(vars[k])
		if e.cb != nil {
			key, value = e.cb(k, vars[k])
			if key == "" {
				continue
			}
		}

		var err error
		if out, err = sjson.Set(out, e.path(key), value); err != nil {
			return nil, err
		}
	}

	return []byte(out), nil
}

func (e *Env) path(key string) string {
	if e.delim == "" || e.delim == "." {
		return key
	}
	return strings.ReplaceAll(key, e.delim, ".")
}

func (e *Env) Read() (map[string]any, error) {
	return nil, ErrReadNotSupported
}
