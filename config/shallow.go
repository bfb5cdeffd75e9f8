package config

import "maps"

// ShallowMerge combines two maps one level deep. When next is non-nil the
// result is a new map holding next overlaid by original, so entries already
// present in original win. When next is nil original is returned as is, or an
// empty map if original is nil as well. Nested values are never merged.
func ShallowMerge[M ~map[K]V, K comparable, V any](original, next M) M {
	if next == nil {
		if original == nil {
			return M{}
		}
		return original
	}

	out := make(M, len(next)+len(original))
	maps.Copy(out, next)
	maps.Copy(out, original)
	return out
}
