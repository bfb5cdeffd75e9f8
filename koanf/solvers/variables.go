package solvers

import (
	"github.com/knadh/koanf/v2"
)

type variables struct {
	delimiters delimiters
}

// NewVariablesSolver replaces references like ${plugins.loading.name} with the
// value stored at that path. A value made only of the reference keeps the
// referenced type, otherwise the reference is replaced by its string form.
// Unknown paths are left untouched.
func NewVariablesSolver(start, end string) ConfigSolver {
	return &variables{delimiters: delimiters{Start: start, End: end}}
}

func (s *variables) Solve(k *koanf.Koanf) *koanf.Koanf {
	eachString(k, func(key, val string) {
		path, from, to, ok := s.delimiters.find(val)
		if !ok || path == "" || path == key || !k.Exists(path) {
			return
		}

		ref := k.Get(path)
		if from == 0 && to == len(val) {
			k.Set(key, ref)
			return
		}
		k.Set(key, val[:from]+ToString(ref)+val[to:])
	})
	return k
}
