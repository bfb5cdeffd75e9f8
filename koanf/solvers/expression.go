package solvers

import (
	"strings"

	"github.com/goliatone/go-storecfg/logger"
	opts "github.com/goliatone/go-options"
	"github.com/knadh/koanf/v2"
)

// EvalErrorHandler handles a failed expression. Returning true marks the
// error as handled.
type EvalErrorHandler func(key string, expr string, err error, cfg *koanf.Koanf) bool

type expression struct {
	delimiters delimiters
	evaluator  opts.Evaluator
	onError    EvalErrorHandler
}

// NewExpressionSolver evaluates values that are entirely wrapped in the
// delimiters, e.g. {{ env == "production" }}, against the loaded config.
func NewExpressionSolver(start, end string) ConfigSolver {
	return NewExpressionSolverWithEvaluator(start, end, nil, nil)
}

func NewExpressionSolverWithEvaluator(start, end string, eval opts.Evaluator, onErr EvalErrorHandler) ConfigSolver {
	if start == "" {
		start = "{{"
	}
	if end == "" {
		end = "}}"
	}
	if eval == nil {
		eval = opts.NewExprEvaluator()
	}
	if onErr == nil {
		onErr = OnEvalLeaveUnchanged()
	}
	return &expression{
		delimiters: delimiters{Start: start, End: end},
		evaluator:  eval,
		onError:    onErr,
	}
}

func (s *expression) Solve(k *koanf.Koanf) *koanf.Koanf {
	if k == nil {
		return k
	}
	eachString(k, func(key, val string) {
		expr, ok := s.delimiters.wraps(val)
		if !ok {
			return
		}
		expr = strings.TrimSpace(expr)
		result, err := s.evaluator.Evaluate(opts.RuleContext{Snapshot: k.Raw()}, expr)
		if err != nil {
			s.onError(key, expr, err, k)
			return
		}
		k.Set(key, result)
	})
	return k
}

// OnEvalLeaveUnchanged keeps the original value.
func OnEvalLeaveUnchanged() EvalErrorHandler {
	return func(string, string, error, *koanf.Koanf) bool {
		return true
	}
}

// OnEvalRemove deletes the key.
func OnEvalRemove() EvalErrorHandler {
	return func(key string, _ string, _ error, cfg *koanf.Koanf) bool {
		if cfg != nil {
			cfg.Delete(key)
		}
		return true
	}
}

// OnEvalLog logs the failure and keeps the original value.
func OnEvalLog(l logger.Logger) EvalErrorHandler {
	if l == nil {
		l = logger.NewDefaultLogger("solvers")
	}
	return func(key string, expr string, err error, _ *koanf.Koanf) bool {
		l.Warn("expression for %s failed: %s (%v)", key, expr, err)
		return true
	}
}
