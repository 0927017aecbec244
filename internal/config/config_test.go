package config

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/depstate/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.Metrics.Namespace != "depstate" {
		t.Errorf("metrics namespace = %q", cfg.Metrics.Namespace)
	}
	if cfg.Render.MaxFlushPasses != DefaultMaxFlushPasses {
		t.Errorf("max flush passes = %d", cfg.Render.MaxFlushPasses)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "depstate.json", `{
		"debug": true,
		"log": {"level": "warn", "format": "json"},
		"render": {"maxFlushPasses": 7}
	}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug || cfg.Log.Level != "warn" || cfg.Log.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Render.MaxFlushPasses != 7 {
		t.Errorf("max flush passes = %d, want 7", cfg.Render.MaxFlushPasses)
	}
	if cfg.Metrics.Namespace != "depstate" {
		t.Errorf("missing section should keep default, got %q", cfg.Metrics.Namespace)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "depstate.yaml", `
log:
  level: debug
metrics:
  namespace: myapp
trace:
  endpoint: http://localhost:4318
  serviceName: replay
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Metrics.Namespace != "myapp" {
		t.Errorf("namespace = %q", cfg.Metrics.Namespace)
	}
	if cfg.Trace.Endpoint != "http://localhost:4318" || cfg.Trace.ServiceName != "replay" {
		t.Errorf("trace = %+v", cfg.Trace)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	if !stderrors.Is(err, errors.New("E101")) {
		t.Errorf("missing file error = %v, want E101", err)
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error should wrap os.ErrNotExist: %v", err)
	}

	bad := writeFile(t, dir, "bad.json", `{"debug": `)
	if _, err := LoadFile(bad); !stderrors.Is(err, errors.New("E101")) {
		t.Errorf("bad json error = %v, want E101", err)
	}

	invalid := writeFile(t, dir, "invalid.yaml", "log:\n  format: xml\n")
	if _, err := LoadFile(invalid); !stderrors.Is(err, errors.New("E100")) {
		t.Errorf("invalid value error = %v, want E100", err)
	}
}

func TestLoadDirectory(t *testing.T) {
	t.Run("no file uses defaults", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Path() != "" {
			t.Errorf("Path() = %q, want empty", cfg.Path())
		}
	})

	t.Run("json wins over yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "depstate.yaml", "log:\n  level: error\n")
		writeFile(t, dir, "depstate.json", `{"log": {"level": "warn"}}`)

		cfg, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("level = %q, want warn", cfg.Log.Level)
		}
	})

	t.Run("yml extension", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "depstate.yml", "debug: true\n")

		cfg, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if !cfg.Debug {
			t.Error("debug not loaded from depstate.yml")
		}
	})
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	cfg.Log.Format = "json"

	err := cfg.ApplyEnv(map[string]string{
		"DEPSTATE_DEBUG":                   "true",
		"DEPSTATE_LOG_LEVEL":               "error",
		"DEPSTATE_RENDER_MAX_FLUSH_PASSES": "3",
		"DEPSTATE_TRACE_ENDPOINT":          "http://collector:4318",
		"UNRELATED":                        "x",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.Debug {
		t.Error("DEPSTATE_DEBUG not applied")
	}
	if cfg.Log.Level != "error" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("unset variable overwrote format: %q", cfg.Log.Format)
	}
	if cfg.Render.MaxFlushPasses != 3 {
		t.Errorf("max flush passes = %d", cfg.Render.MaxFlushPasses)
	}
	if cfg.Trace.Endpoint != "http://collector:4318" {
		t.Errorf("endpoint = %q", cfg.Trace.Endpoint)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := New()
	err := cfg.ApplyEnv(map[string]string{"DEPSTATE_RENDER_MAX_FLUSH_PASSES": "many"})
	if !stderrors.Is(err, errors.New("E100")) {
		t.Errorf("error = %v, want E100", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"warning alias", func(c *Config) { c.Log.Level = "WARNING" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"zero passes", func(c *Config) { c.Render.MaxFlushPasses = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := New()
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	cfg.Debug = true
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("Debug should force debug level, got %v", cfg.LogLevel())
	}

	var buf bytes.Buffer
	cfg.Log.Format = "json"
	cfg.NewLogger(&buf).Debug("hello", "k", 1)
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json logger output = %q", buf.String())
	}
}
