package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append(args, "--env-prefix", "STORECFG_TEST_", "--log-level", "error"))
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()

	if cmd.Use != "storecfg" {
		t.Errorf("Expected Use to be 'storecfg', got %s", cmd.Use)
	}

	for _, name := range []string{"merge", "validate", "plugins"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q", name)
		}
	}

	for _, flag := range []string{"config", "env-prefix", "output", "log-level", "name", "production"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Expected persistent flag %q", flag)
		}
	}
}

func TestMergeCommand(t *testing.T) {
	path := writeConfig(t, "store.json", `{
		"name": "todo",
		"models": {"count": {"state": 0}},
		"plugins": ["loading", "devtools"]
	}`)

	out, err := run(t, "merge", "--config", path)
	if err != nil {
		t.Fatalf("merge failed: %v\n%s", err, out)
	}

	var summary struct {
		Name    string   `json:"name"`
		Models  []string `json:"models"`
		Plugins []string `json:"plugins"`
		Redux   struct {
			Reducers     []string `json:"reducers"`
			RootReducers []string `json:"rootReducers"`
			Enhancers    int      `json:"enhancers"`
		} `json:"redux"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}

	if summary.Name != "todo" {
		t.Errorf("Expected name todo, got %q", summary.Name)
	}
	if strings.Join(summary.Models, ",") != "count,loading" {
		t.Errorf("Expected models count,loading, got %v", summary.Models)
	}
	if strings.Join(summary.Plugins, ",") != "loading,devtools" {
		t.Errorf("Expected plugins loading,devtools, got %v", summary.Plugins)
	}
	if strings.Join(summary.Redux.Reducers, ",") != "loading" {
		t.Errorf("Expected reducers loading, got %v", summary.Redux.Reducers)
	}
	if strings.Join(summary.Redux.RootReducers, ",") != "loading" {
		t.Errorf("Expected root reducers loading, got %v", summary.Redux.RootReducers)
	}
	if summary.Redux.Enhancers != 1 {
		t.Errorf("Expected 1 enhancer, got %d", summary.Redux.Enhancers)
	}
}

func TestMergeCommandDevtoolOptions(t *testing.T) {
	tests := []struct {
		name      string
		options   string
		enhancers int
	}{
		{name: "enabled", options: `{"maxAge": "25", "trace": true}`, enhancers: 1},
		{name: "disabled", options: `{"disabled": true}`, enhancers: 0},
		{name: "invalid", options: `{"maxAge": 0}`, enhancers: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "store.json", `{
				"plugins": ["devtools"],
				"redux": {"devtoolOptions": `+tt.options+`}
			}`)

			out, err := run(t, "merge", "--config", path)
			if err != nil {
				t.Fatalf("merge failed: %v\n%s", err, out)
			}

			var summary struct {
				Redux struct {
					Enhancers int `json:"enhancers"`
				} `json:"redux"`
			}
			if err := json.Unmarshal([]byte(out), &summary); err != nil {
				t.Fatalf("output is not json: %v\n%s", err, out)
			}
			if summary.Redux.Enhancers != tt.enhancers {
				t.Errorf("Expected %d enhancers, got %d", tt.enhancers, summary.Redux.Enhancers)
			}
		})
	}
}

func TestMergeCommandFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "store.yaml", "name: todo\n")
	t.Setenv("STORECFG_TEST_NAME", "from-env")

	out, err := run(t, "merge", "--config", path, "--name", "from-flag")
	if err != nil {
		t.Fatalf("merge failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"name":"from-flag"`) {
		t.Errorf("Expected flag name in output, got %s", out)
	}
}

func TestMergeCommandEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "store.yaml", "name: todo\n")
	t.Setenv("STORECFG_TEST_NAME", "from-env")

	out, err := run(t, "merge", "--config", path)
	if err != nil {
		t.Fatalf("merge failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"name":"from-env"`) {
		t.Errorf("Expected env name in output, got %s", out)
	}
}

func TestMergeCommandTable(t *testing.T) {
	path := writeConfig(t, "store.json", `{"name": "todo", "plugins": ["loading"]}`)

	out, err := run(t, "merge", "--config", path, "--output", "table")
	if err != nil {
		t.Fatalf("merge failed: %v\n%s", err, out)
	}
	for _, want := range []string{"KEY", "VALUE", "name", "todo", "redux.reducers", "loading"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in table output:\n%s", want, out)
		}
	}
}

func TestMergeCommandUnknownPlugin(t *testing.T) {
	path := writeConfig(t, "store.json", `{"plugins": ["nope"]}`)

	_, err := run(t, "merge", "--config", path)
	if err == nil {
		t.Fatal("Expected an error for an unknown plugin")
	}
	if !strings.Contains(err.Error(), "UNKNOWN_PLUGIN") {
		t.Errorf("Expected UNKNOWN_PLUGIN, got %v", err)
	}
}

func TestMergeCommandProductionSkipsChecks(t *testing.T) {
	path := writeConfig(t, "store.json", `{"models": [1, 2]}`)

	if _, err := run(t, "merge", "--config", path); err == nil {
		t.Fatal("Expected a shape error outside production")
	}

	out, err := run(t, "merge", "--config", path, "--production")
	if err != nil {
		t.Fatalf("Expected production merge to pass, got %v", err)
	}
	if !strings.Contains(out, `"extra"`) {
		t.Errorf("Expected malformed models under extra, got %s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeConfig(t, "store.json", `{"name": "todo", "plugins": ["loading"]}`)
		out, err := run(t, "validate", "--config", path)
		if err != nil {
			t.Fatalf("validate failed: %v", err)
		}
		if !strings.Contains(out, "init config is valid") {
			t.Errorf("Expected success message, got %q", out)
		}
	})

	t.Run("violations ignore production", func(t *testing.T) {
		path := writeConfig(t, "store.json", `{
			"production": true,
			"models": [],
			"redux": {"reducers": "nope", "middlewares": {}}
		}`)
		out, err := run(t, "validate", "--config", path)
		if err == nil {
			t.Fatal("Expected validate to fail")
		}
		for _, want := range []string{
			"init config.models must be an object",
			"init config.redux.reducers must be an object",
			"init config.redux.middlewares must be an array",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("Expected %q in output:\n%s", want, out)
			}
		}
	})
}

func TestPluginsCommand(t *testing.T) {
	out, err := run(t, "plugins")
	if err != nil {
		t.Fatalf("plugins failed: %v", err)
	}
	if out != "devtools\nloading\n" {
		t.Errorf("Expected sorted plugin names, got %q", out)
	}
}
