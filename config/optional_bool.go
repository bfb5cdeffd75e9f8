package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

func init() {
	copystructure.Copiers[reflect.TypeOf(OptionalBool{})] = func(v any) (any, error) {
		return v.(OptionalBool), nil
	}
}

// OptionalBool distinguishes an omitted switch from an explicit false. The
// zero value is unset.
type OptionalBool struct {
	set   bool
	value bool
}

func NewOptionalBool(v bool) OptionalBool {
	return OptionalBool{set: true, value: v}
}

func (ob *OptionalBool) Set(v bool) {
	ob.set, ob.value = true, v
}

func (ob *OptionalBool) Unset() {
	ob.set, ob.value = false, false
}

func (ob OptionalBool) IsSet() bool { return ob.set }

func (ob OptionalBool) Value() bool { return ob.value }

// BoolOr returns the value when set, def otherwise.
func (ob OptionalBool) BoolOr(def bool) bool {
	if ob.set {
		return ob.value
	}
	return def
}

func (ob OptionalBool) String() string {
	if !ob.set {
		return "<unset>"
	}
	return strconv.FormatBool(ob.value)
}

func (ob OptionalBool) MarshalText() ([]byte, error) {
	if !ob.set {
		return []byte{}, nil
	}
	return []byte(strconv.FormatBool(ob.value)), nil
}

// UnmarshalText accepts the usual boolean spellings. Blank and "null" unset.
func (ob *OptionalBool) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" || strings.EqualFold(s, "null") {
		ob.Unset()
		return nil
	}
	v, err := parseBoolString(s)
	if err != nil {
		return err
	}
	ob.Set(v)
	return nil
}

func parseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("optional bool: invalid value %q", s)
}

var optionalBoolType = reflect.TypeOf(OptionalBool{})

// optionalBoolDecodeHook lets providers feed booleans, strings or nil into
// OptionalBool fields.
func optionalBoolDecodeHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != optionalBoolType {
			return data, nil
		}
		switch v := data.(type) {
		case nil:
			return OptionalBool{}, nil
		case OptionalBool:
			return v, nil
		case *OptionalBool:
			if v == nil {
				return OptionalBool{}, nil
			}
			return *v, nil
		case bool:
			return NewOptionalBool(v), nil
		case string:
			var ob OptionalBool
			if err := ob.UnmarshalText([]byte(v)); err != nil {
				return nil, err
			}
			return ob, nil
		}
		return data, nil
	}
}
