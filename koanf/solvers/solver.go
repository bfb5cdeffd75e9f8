package solvers

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/v2"
)

// ConfigSolver rewrites values of a loaded configuration in place.
type ConfigSolver interface {
	Solve(config *koanf.Koanf) *koanf.Koanf
}

func ToString(v any) string {
	return fmt.Sprintf("%v", v)
}

type delimiters struct {
	Start string
	End   string
}

// wraps reports whether s is exactly Start + inner + End.
func (d delimiters) wraps(s string) (string, bool) {
	if !strings.HasPrefix(s, d.Start) || !strings.HasSuffix(s, d.End) {
		return "", false
	}
	if len(s) < len(d.Start)+len(d.End) {
		return "", false
	}
	return s[len(d.Start) : len(s)-len(d.End)], true
}

// find returns the first delimited reference in s and its byte range.
func (d delimiters) find(s string) (inner string, from, to int, ok bool) {
	from = strings.Index(s, d.Start)
	if from == -1 {
		return "", 0, 0, false
	}
	rest := s[from+len(d.Start):]
	end := strings.Index(rest, d.End)
	if end == -1 {
		return "", 0, 0, false
	}
	to = from + len(d.Start) + end + len(d.End)
	return rest[:end], from, to, true
}

// eachString calls fn for every flattened key holding a string.
func eachString(k *koanf.Koanf, fn func(key, value string)) {
	for key, val := range k.All() {
		if s, ok := val.(string); ok {
			fn(key, s)
		}
	}
}
