package config

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-storecfg/logger"
)

// Check pairs a failing condition with the message reported for it.
type Check struct {
	Failed  bool
	Message string
}

// Validator reports failing checks. Whether a failure aborts Merge (non nil
// error) or is only reported is up to the implementation.
type Validator interface {
	Validate(checks ...Check) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(checks ...Check) error

func (fn ValidatorFunc) Validate(checks ...Check) error {
	return fn(checks...)
}

// Failures returns the messages of every failed check, in order.
func Failures(checks []Check) []string {
	var out []string
	for _, c := range checks {
		if c.Failed {
			out = append(out, c.Message)
		}
	}
	return out
}

// CollectValidator returns a validator that reports all failures together in
// a single validation error.
func CollectValidator() Validator {
	return ValidatorFunc(func(checks ...Check) error {
		failed := Failures(checks)
		if len(failed) == 0 {
			return nil
		}
		return errors.New("invalid init config: "+strings.Join(failed, "; "), errors.CategoryValidation).
			WithTextCode("INIT_CONFIG_SHAPE").
			WithMetadata(map[string]any{
				"violations": failed,
			})
	})
}

// LogValidator logs failures and lets Merge continue.
func LogValidator(l logger.Logger) Validator {
	if l == nil {
		l = logger.NewDefaultLogger("config")
	}
	return ValidatorFunc(func(checks ...Check) error {
		for _, msg := range Failures(checks) {
			l.Error("%s", msg)
		}
		return nil
	})
}

const (
	msgPlugins         = "init config.plugins must be an array"
	msgModels          = "init config.models must be an object"
	msgReducers        = "init config.redux.reducers must be an object"
	msgMiddlewares     = "init config.redux.middlewares must be an array"
	msgEnhancers       = "init config.redux.enhancers must be an array of functions"
	msgCombineReducers = "init config.redux.combineReducers must be a function"
	msgCreateStore     = "init config.redux.createStore must be a function"
)
