package cfgx

import (
	"errors"
	"testing"
	"time"
)

func TestPreprocessEvalFuncs(t *testing.T) {
	input := map[string]any{
		"name": func() string { return "dynamic" },
		"order": func() (int, error) {
			return 42, nil
		},
		"models": map[string]any{
			"count": func() int { return 7 },
		},
		"tags": []any{func() string { return "a" }, "b"},
	}

	result, err := PreprocessEvalFuncs()(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := result.(map[string]any)
	if out["name"] != "dynamic" || out["order"] != 42 {
		t.Fatalf("unexpected output: %#v", out)
	}
	if out["models"].(map[string]any)["count"] != 7 {
		t.Fatalf("expected nested value 7, got %#v", out["models"])
	}
	tags := out["tags"].([]any)
	if tags[0] != "a" || tags[1] != "b" {
		t.Fatalf("unexpected tags: %#v", tags)
	}
}

func TestPreprocessEvalFuncsStruct(t *testing.T) {
	input := struct {
		Name  func() string `mapstructure:"name"`
		Order func() int    `koanf:"order"`
		skip  string
	}{
		Name:  func() string { return "struct" },
		Order: func() int { return 10 },
	}

	result, err := PreprocessEvalFuncs()(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := result.(map[string]any)
	if out["name"] != "struct" || out["order"] != 10 {
		t.Fatalf("unexpected output: %#v", out)
	}
	if _, ok := out["skip"]; ok {
		t.Fatalf("unexported field leaked: %#v", out)
	}
}

func TestPreprocessEvalFuncsErrors(t *testing.T) {
	_, err := PreprocessEvalFuncs()(map[string]any{
		"name": func() (string, error) { return "", errors.New("boom") },
	})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}

	_, err = PreprocessEvalFuncs()(map[string]any{
		"name": func() string { panic("bad") },
	})
	if err == nil {
		t.Fatal("expected panic to surface as error")
	}
}

func TestBuildWithPreprocessEvalFuncs(t *testing.T) {
	decl, err := Build[pluginDecl](
		map[string]any{"name": func() string { return "lazy" }, "order": func() (int, error) { return 2, nil }},
		WithPreprocessEvalFuncs[pluginDecl](),
		WithDefaults(pluginDecl{Order: 1, Timeout: time.Second}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decl.Name != "lazy" || decl.Order != 2 {
		t.Fatalf("expected evaluated values, got %#v", decl)
	}
	if decl.Timeout != time.Second {
		t.Fatalf("expected default timeout, got %s", decl.Timeout)
	}
}
