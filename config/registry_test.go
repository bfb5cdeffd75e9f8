package config

import (
	goerrors "errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-errors"
)

func TestRegistry(t *testing.T) {
	loading := NewPlugin("loading", nil)
	r := NewRegistry(loading)

	got, err := r.Lookup("loading")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if got != loading {
		t.Error("expected the registered plugin pointer")
	}

	if err := r.Register(NewPlugin("devtools", nil)); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if names := r.Names(); !reflect.DeepEqual(names, []string{"devtools", "loading"}) {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry(NewPlugin("loading", nil))

	tests := []struct {
		name     string
		err      error
		textCode string
	}{
		{"nil plugin", r.Register(nil), "INVALID_PLUGIN"},
		{"empty name", r.Register(&Plugin{}), "INVALID_PLUGIN"},
		{"duplicate", r.Register(NewPlugin("loading", nil)), "DUPLICATE_PLUGIN"},
		{"unknown", func() error { _, err := r.Lookup("nope"); return err }(), "UNKNOWN_PLUGIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *errors.Error
			if !goerrors.As(tt.err, &e) {
				t.Fatalf("expected *errors.Error, got %T", tt.err)
			}
			if e.TextCode != tt.textCode {
				t.Errorf("expected %s, got %s", tt.textCode, e.TextCode)
			}
		})
	}
}

func TestRegistryNil(t *testing.T) {
	var r *Registry
	if _, err := r.Lookup("loading"); err == nil {
		t.Error("expected nil registry lookup to fail")
	}
	if len(r.Names()) != 0 {
		t.Error("expected no names")
	}
}

func TestNewRegistryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected NewRegistry to panic on duplicates")
		}
	}()
	NewRegistry(NewPlugin("a", nil), NewPlugin("a", nil))
}
