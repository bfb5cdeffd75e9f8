package config

import (
	"context"
	goerrors "errors"
	"io/fs"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/v2"
)

func TestProviderTypeValidate(t *testing.T) {
	for _, pt := range []ProviderType{
		ProviderTypeDefault, ProviderTypeLocalFile, ProviderTypeEnv, ProviderTypeFlag, ProviderTypeStruct,
	} {
		if err := pt.validate(); err != nil {
			t.Errorf("%s: unexpected error %v", pt, err)
		}
	}

	err := ProviderType("consul").validate()
	var e *errors.Error
	if !goerrors.As(err, &e) || e.TextCode != "INVALID_PROVIDER_TYPE" {
		t.Errorf("expected INVALID_PROVIDER_TYPE, got %v", err)
	}
}

func TestPriorityWithOffset(t *testing.T) {
	if got := PriorityConfig.WithOffset(5); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
	if got := PriorityFlags.WithOffset(-40); got != PriorityDefaults {
		t.Errorf("expected %d, got %d", PriorityDefaults, got)
	}
}

func TestDefaultErrorFilter(t *testing.T) {
	errBoom := goerrors.New("boom")
	wrapped := errors.Wrap(fs.ErrNotExist, errors.CategoryOperation, "failed to load")

	tests := []struct {
		name    string
		filter  ErrorFilter
		err     error
		ignored bool
	}{
		{"nil error", DefaultErrorFilter(), nil, false},
		{"missing file", DefaultErrorFilter(), fs.ErrNotExist, true},
		{"wrapped missing file", DefaultErrorFilter(), wrapped, true},
		{"other error", DefaultErrorFilter(), errBoom, false},
		{"allowed error", DefaultErrorFilter(errBoom), errBoom, true},
		{"allowed list excludes missing", DefaultErrorFilter(errBoom), fs.ErrNotExist, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter(tt.err); got != tt.ignored {
				t.Errorf("expected %v, got %v", tt.ignored, got)
			}
		})
	}
}

func TestOptionalProvider(t *testing.T) {
	l := NewLoader()
	ctx := context.Background()

	p, err := OptionalProvider(FileProvider("testdata/missing.yaml"))(l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Type() != ProviderTypeLocalFile || p.Priority() != int(PriorityConfig) {
		t.Errorf("expected file provider metadata, got %s/%d", p.Type(), p.Priority())
	}
	if err := p.Load(ctx, koanf.New(".")); err != nil {
		t.Errorf("expected missing file to be ignored, got %v", err)
	}

	strict, err := FileProvider("testdata/missing.yaml")(l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := strict.Load(ctx, koanf.New(".")); err == nil {
		t.Error("expected missing file to fail without OptionalProvider")
	}
}

func TestProviderBuilderErrors(t *testing.T) {
	l := NewLoader()

	tests := []struct {
		name     string
		builder  ProviderBuilder
		textCode string
	}{
		{"nil flagset", FlagsProvider(nil), "NIL_FLAGSET"},
		{"nil struct", StructProvider(nil), "NIL_STRUCT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder(l)
			var e *errors.Error
			if !goerrors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %v", err)
			}
			if e.TextCode != tt.textCode {
				t.Errorf("expected %s, got %s", tt.textCode, e.TextCode)
			}
		})
	}
}
