package config

// MergeProviderValues is the koanf merge function used by the file, env and
// struct providers. Nested maps merge key by key. A later provider does not
// override an existing value with nil, an empty string or an unset
// OptionalBool, so a blank APP_NAME does not erase the name read from a file.
// Lists, including plugins, are replaced as a whole.
func MergeProviderValues(src, dst map[string]any) error {
	for key, incoming := range src {
		current, exists := dst[key]

		if next, ok := incoming.(map[string]any); ok {
			if prev, ok := current.(map[string]any); ok {
				if err := MergeProviderValues(next, prev); err != nil {
					return err
				}
				continue
			}
		}

		if !exists || overrides(incoming) {
			dst[key] = incoming
		}
	}
	return nil
}

func overrides(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case OptionalBool:
		return val.IsSet()
	case *OptionalBool:
		return val != nil && val.IsSet()
	}
	return true
}
