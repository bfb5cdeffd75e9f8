package cfgx

import (
	"fmt"
	"reflect"
)

// Preprocessor transforms raw input before it is decoded.
type Preprocessor func(any) (any, error)

// PreprocessEvalFuncs walks maps, slices and structs and replaces every zero
// argument function with the value it returns. Functions returning
// (value, error) abort the build on error. Structs become map[string]any.
func PreprocessEvalFuncs() Preprocessor {
	return func(input any) (any, error) {
		return evalValue(reflect.ValueOf(input))
	}
}

func evalValue(val reflect.Value) (any, error) {
	if !val.IsValid() {
		return nil, nil
	}

	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return nil, nil
		}
		return evalValue(val.Elem())

	case reflect.Func:
		return callFunc(val)

	case reflect.Map:
		out := make(map[string]any, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key, ok := iter.Key().Interface().(string)
			if !ok {
				return nil, fmt.Errorf("cfgx: expected string map key, got %s", iter.Key().Type())
			}
			v, err := evalValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil

	case reflect.Slice, reflect.Array:
		out := make([]any, val.Len())
		for i := range out {
			v, err := evalValue(val.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case reflect.Struct:
		out := make(map[string]any, val.NumField())
		typ := val.Type()
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			key := fieldKey(field)
			if key == "-" {
				continue
			}
			v, err := evalValue(val.Field(i))
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	}

	return val.Interface(), nil
}

func fieldKey(field reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "koanf", "json"} {
		if v := field.Tag.Get(tag); v != "" {
			return v
		}
	}
	return field.Name
}

func callFunc(fn reflect.Value) (result any, err error) {
	typ := fn.Type()
	if fn.IsNil() || typ.NumIn() != 0 || typ.NumOut() == 0 || typ.NumOut() > 2 {
		return fn.Interface(), nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cfgx: eval func panic: %v", r)
		}
	}()

	out := fn.Call(nil)
	if len(out) == 2 {
		if e, ok := out[1].Interface().(error); ok && e != nil {
			return nil, e
		}
	}
	return out[0].Interface(), nil
}
