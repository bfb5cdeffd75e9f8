package config

import (
	"reflect"
	"testing"
)

func TestMergeProviderValues(t *testing.T) {
	tests := []struct {
		name     string
		dst      map[string]any
		src      map[string]any
		expected map[string]any
	}{
		{
			name:     "new keys are added",
			dst:      map[string]any{"name": "todo"},
			src:      map[string]any{"theme": "dark"},
			expected: map[string]any{"name": "todo", "theme": "dark"},
		},
		{
			name:     "later values override",
			dst:      map[string]any{"name": "todo"},
			src:      map[string]any{"name": "counter"},
			expected: map[string]any{"name": "counter"},
		},
		{
			name:     "blank values do not override",
			dst:      map[string]any{"name": "todo", "theme": "dark"},
			src:      map[string]any{"name": "", "theme": nil},
			expected: map[string]any{"name": "todo", "theme": "dark"},
		},
		{
			name:     "blank values fill missing keys",
			dst:      map[string]any{},
			src:      map[string]any{"name": ""},
			expected: map[string]any{"name": ""},
		},
		{
			name:     "unset optional bool does not override",
			dst:      map[string]any{"production": true},
			src:      map[string]any{"production": OptionalBool{}},
			expected: map[string]any{"production": true},
		},
		{
			name:     "explicit false overrides",
			dst:      map[string]any{"production": true},
			src:      map[string]any{"production": false},
			expected: map[string]any{"production": false},
		},
		{
			name: "nested maps merge",
			dst: map[string]any{"redux": map[string]any{
				"devtoolOptions": map[string]any{"trace": true},
			}},
			src: map[string]any{"redux": map[string]any{
				"devtoolOptions": map[string]any{"maxAge": 10},
			}},
			expected: map[string]any{"redux": map[string]any{
				"devtoolOptions": map[string]any{"trace": true, "maxAge": 10},
			}},
		},
		{
			name:     "lists are replaced",
			dst:      map[string]any{"plugins": []any{"loading", "devtools"}},
			src:      map[string]any{"plugins": []any{"persist"}},
			expected: map[string]any{"plugins": []any{"persist"}},
		},
		{
			name:     "map replaces scalar",
			dst:      map[string]any{"models": "nope"},
			src:      map[string]any{"models": map[string]any{"a": 1}},
			expected: map[string]any{"models": map[string]any{"a": 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := MergeProviderValues(tt.src, tt.dst); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(tt.dst, tt.expected) {
				t.Errorf("got %v, want %v", tt.dst, tt.expected)
			}
		})
	}
}
