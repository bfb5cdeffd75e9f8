package cfgx

import (
	"encoding"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

type Option[T any] func(*builder[T])

// Validator runs after a successful decode.
type Validator[T any] func(*T) error

// WithDefaults seeds the result with a clone of value before decoding. Keys
// missing from the input keep the default.
func WithDefaults[T any](value T) Option[T] {
	return func(b *builder[T]) {
		b.defaults = &value
	}
}

func WithPreprocess[T any](pre ...Preprocessor) Option[T] {
	return func(b *builder[T]) {
		b.preprocessors = append(b.preprocessors, pre...)
	}
}

// WithPreprocessEvalFuncs replaces zero argument functions in the input with
// their results before decoding.
func WithPreprocessEvalFuncs[T any]() Option[T] {
	return WithPreprocess[T](PreprocessEvalFuncs())
}

func WithDecodeHooks[T any](hooks ...mapstructure.DecodeHookFunc) Option[T] {
	return func(b *builder[T]) {
		for _, h := range hooks {
			if h != nil {
				b.hooks = append(b.hooks, h)
			}
		}
	}
}

// WithStrictKeys fails the decode on keys that match no field.
func WithStrictKeys[T any]() Option[T] {
	return func(b *builder[T]) {
		b.decoderConfig.ErrorUnused = true
	}
}

// WithWeakTyping toggles mapstructure weak typing, on by default so values
// read from env or flags as strings decode into numbers and bools.
func WithWeakTyping[T any](enabled bool) Option[T] {
	return func(b *builder[T]) {
		b.decoderConfig.WeaklyTypedInput = enabled
	}
}

func WithTagName[T any](tag string) Option[T] {
	return func(b *builder[T]) {
		if tag != "" {
			b.decoderConfig.TagName = tag
		}
	}
}

// WithValidator registers the post decode validator. Only one is allowed.
func WithValidator[T any](v Validator[T]) Option[T] {
	return func(b *builder[T]) {
		if v == nil {
			return
		}
		if b.validator != nil {
			b.optionError("validator already registered")
			return
		}
		b.validator = v
	}
}

// DefaultDecodeHooks returns the duration and text unmarshaler hooks.
func DefaultDecodeHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		mapstructure.StringToTimeDurationHookFunc(),
		TextUnmarshalerHook(),
	}
}

// TextUnmarshalerHook decodes strings into encoding.TextUnmarshaler targets.
func TextUnmarshalerHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		target := reflect.New(to).Interface()
		u, ok := target.(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}
		if err := u.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return target, nil
	}
}
