package cfgx

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

const (
	stageDefaults   = "defaults"
	stagePreprocess = "preprocess"
	stageDecode     = "decode"
	stageValidate   = "validate"
)

var (
	ErrDefaults   = errors.New("cfgx: defaults stage failed")
	ErrPreprocess = errors.New("cfgx: preprocess stage failed")
	ErrDecode     = errors.New("cfgx: decode stage failed")
	ErrValidate   = errors.New("cfgx: validate stage failed")
	// ErrOption reports a misconfigured option, e.g. two validators.
	ErrOption = errors.New("cfgx: option configuration failed")
)

// StageError describes a failure in one build stage.
type StageError struct {
	Stage string
	Base  error
	Err   error
	Meta  map[string]any
}

func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches both the stage sentinel and the wrapped error.
func (e *StageError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	return errors.Is(e.Base, target) || errors.Is(e.Err, target)
}

func newStageError(stage string, base, err error, meta map[string]any) error {
	return &StageError{Stage: stage, Base: base, Err: err, Meta: meta}
}

type builder[T any] struct {
	input         any
	defaults      *T
	preprocessors []Preprocessor
	hooks         []mapstructure.DecodeHookFunc
	decoderConfig mapstructure.DecoderConfig
	validator     Validator[T]
	optionErr     error
}

func newBuilder[T any](input any) *builder[T] {
	return &builder[T]{
		input: input,
		decoderConfig: mapstructure.DecoderConfig{
			TagName:          "mapstructure",
			WeaklyTypedInput: true,
		},
	}
}

// Build decodes input into a T.
func Build[T any](input any, opts ...Option[T]) (T, error) {
	var zero T

	b := newBuilder[T](input)
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.optionErr != nil {
		return zero, b.optionErr
	}

	result, err := b.applyDefaults()
	if err != nil {
		return zero, err
	}

	current, err := b.applyPreprocessors(b.input)
	if err != nil {
		return zero, err
	}
	if current == nil {
		current = b.input
	}

	if err := b.decode(current, &result); err != nil {
		return zero, err
	}

	if b.validator != nil {
		if err := b.validator(&result); err != nil {
			return zero, newStageError(stageValidate, ErrValidate, err, nil)
		}
	}

	return result, nil
}

func (b *builder[T]) optionError(format string, args ...any) {
	if b.optionErr == nil {
		b.optionErr = fmt.Errorf("%w: %w", ErrOption, fmt.Errorf(format, args...))
	}
}

func (b *builder[T]) applyDefaults() (T, error) {
	var zero T
	if b.defaults == nil {
		return zero, nil
	}

	// defaults are cloned so decoding never writes into the caller's value
	cloned, err := copystructure.Copy(*b.defaults)
	if err != nil {
		return zero, newStageError(stageDefaults, ErrDefaults, err, map[string]any{"reason": "clone"})
	}
	out, ok := cloned.(T)
	if !ok {
		return zero, newStageError(stageDefaults, ErrDefaults,
			fmt.Errorf("cfgx: cloned defaults have type %T", cloned), map[string]any{"reason": "clone"})
	}
	return out, nil
}

func (b *builder[T]) applyPreprocessors(input any) (any, error) {
	current := input
	for i, pre := range b.preprocessors {
		if pre == nil {
			continue
		}
		next, err := pre(current)
		if err != nil {
			return nil, newStageError(stagePreprocess, ErrPreprocess, err, map[string]any{
				"preprocessor_index": i,
			})
		}
		current = next
	}
	return current, nil
}

func (b *builder[T]) decode(input any, result *T) error {
	conf := b.decoderConfig
	conf.Result = decodeTarget(result)
	conf.DecodeHook = b.decodeHook()

	decoder, err := mapstructure.NewDecoder(&conf)
	if err != nil {
		return newStageError(stageDecode, ErrDecode, err, map[string]any{"reason": "decoder_config"})
	}
	if err := decoder.Decode(input); err != nil {
		return newStageError(stageDecode, ErrDecode, err, nil)
	}
	return nil
}

func (b *builder[T]) decodeHook() mapstructure.DecodeHookFunc {
	hooks := append(DefaultDecodeHooks(), b.hooks...)
	return mapstructure.ComposeDecodeHookFunc(hooks...)
}

// decodeTarget allocates pointer targets so Build[*T] works like Build[T].
func decodeTarget[T any](result *T) any {
	val := reflect.ValueOf(result).Elem()
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return val.Interface()
	}
	return val.Addr().Interface()
}
