package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/depstate/internal/errors"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "DEPSTATE_"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log handler format.
	DefaultLogFormat = "text"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "depstate"

	// DefaultMaxFlushPasses is the default scheduler pass bound.
	DefaultMaxFlushPasses = 100

	// DefaultServiceName is the default OpenTelemetry service name.
	DefaultServiceName = "depstate"
)

// FileNames are the configuration file names looked up by Load, in order.
var FileNames = []string{"depstate.json", "depstate.yaml", "depstate.yml"}

// Config is the complete CLI configuration.
type Config struct {
	// Debug enables hook order validation and debug logging.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty" env:"DEBUG"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty" envPrefix:"LOG_"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty" envPrefix:"METRICS_"`

	// Render contains scheduler configuration.
	Render RenderConfig `json:"render,omitempty" yaml:"render,omitempty" envPrefix:"RENDER_"`

	// Trace contains OpenTelemetry configuration.
	Trace TraceConfig `json:"trace,omitempty" yaml:"trace,omitempty" envPrefix:"TRACE_"`

	// path stores where the config was loaded from.
	path string
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" env:"FORMAT"`
}

// MetricsConfig contains Prometheus configuration.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" env:"NAMESPACE"`
}

// RenderConfig contains scheduler configuration.
type RenderConfig struct {
	// MaxFlushPasses bounds re-render passes per flush.
	MaxFlushPasses int `json:"maxFlushPasses,omitempty" yaml:"maxFlushPasses,omitempty" env:"MAX_FLUSH_PASSES"`
}

// TraceConfig contains OpenTelemetry configuration.
type TraceConfig struct {
	// Endpoint is the OTLP/HTTP endpoint URL. Empty disables export.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" env:"ENDPOINT"`

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty" env:"SERVICE_NAME"`
}

// New returns a configuration with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultMetricsNamespace,
		},
		Render: RenderConfig{
			MaxFlushPasses: DefaultMaxFlushPasses,
		},
		Trace: TraceConfig{
			ServiceName: DefaultServiceName,
		},
	}
}

// Load reads the first configuration file of FileNames found in dir, applies
// environment overrides and validates the result. A missing file is not an
// error: defaults and environment are used.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	cfg := New()
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the configuration from path (JSON or YAML by extension),
// applies environment overrides and validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := decode(path, data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.path = path
	cfg.applyDefaults()

	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// ApplyEnv overrides fields from DEPSTATE_* variables. environ replaces the
// process environment when non-nil.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return errors.New("E100").Wrap(err)
	}
	return nil
}

// applyDefaults fills fields a file explicitly left empty.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Render.MaxFlushPasses == 0 {
		c.Render.MaxFlushPasses = DefaultMaxFlushPasses
	}
	if c.Trace.ServiceName == "" {
		c.Trace.ServiceName = DefaultServiceName
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E100").
			WithDetail("log.level must be one of debug, info, warn, error; got " + c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E100").
			WithDetail("log.format must be text or json; got " + c.Log.Format)
	}
	if c.Render.MaxFlushPasses < 1 {
		return errors.New("E100").
			WithDetail("render.maxFlushPasses must be at least 1")
	}
	return nil
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// LogLevel returns the slog level for Log.Level, with debug forced by Debug.
func (c *Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	level, _ := parseLevel(c.Log.Level)
	return level
}

// NewLogger builds a logger writing to w in the configured format and level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
