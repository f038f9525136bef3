package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/vdom"
)

const (
	// ConfigFileName is the JSON configuration file name.
	ConfigFileName = "rangedom.json"

	// DefaultPort is the default live server port.
	DefaultPort = 3000

	// DefaultHost is the default live server host.
	DefaultHost = "localhost"

	// DefaultIdleTimeout is how long a live session may go without
	// activity or an open connection before it is evicted.
	DefaultIdleTimeout = "10m"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "rangedom"
)

// yamlFileNames are tried in order after ConfigFileName.
var yamlFileNames = []string{"rangedom.yaml", "rangedom.yml"}

// Config represents the complete rangedom configuration.
type Config struct {
	// Engine contains renderer settings.
	Engine EngineConfig `json:"engine,omitempty" yaml:"engine,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Server contains live server settings.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Snapshot contains snapshot store settings.
	Snapshot SnapshotConfig `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// EngineConfig contains renderer settings.
type EngineConfig struct {
	// ShrinkPolicy is one of "delete", "retain" or "error".
	ShrinkPolicy string `json:"shrinkPolicy,omitempty" yaml:"shrinkPolicy,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled turns on the Prometheus observer and the /metrics route.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// IdleTimeout is a Go duration string, e.g. "10m".
	IdleTimeout string `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty"`
}

// SnapshotConfig contains snapshot store settings.
type SnapshotConfig struct {
	// Bucket is the S3 bucket. Empty means snapshots are kept in memory.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to every snapshot key.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Engine: EngineConfig{
			ShrinkPolicy: vdom.ShrinkDelete.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			IdleTimeout: DefaultIdleTimeout,
		},
	}
}

// Load reads configuration from the specified directory. It returns the
// defaults when no configuration file exists.
func Load(dir string) (*Config, error) {
	for _, name := range append([]string{ConfigFileName}, yamlFileNames...) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E102").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is well formed")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path, as YAML when the extension asks
// for it and as indented JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E102").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E102").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Engine.ShrinkPolicy == "" {
		c.Engine.ShrinkPolicy = vdom.ShrinkDelete.String()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := vdom.ParseShrinkPolicy(c.Engine.ShrinkPolicy); err != nil {
		return errors.New("E101").
			WithDetail("engine.shrinkPolicy must be delete, retain or error, got " + strconv.Quote(c.Engine.ShrinkPolicy))
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E101").
			WithDetail("log.level must be debug, info, warn or error, got " + strconv.Quote(c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E101").
			WithDetail("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E101").
			WithDetail("Port must be between 0 and 65535")
	}
	if d, err := time.ParseDuration(c.Server.IdleTimeout); err != nil || d <= 0 {
		return errors.New("E101").
			WithDetail("server.idleTimeout must be a positive duration, got " + strconv.Quote(c.Server.IdleTimeout))
	}
	return nil
}

// EngineOptions converts the engine settings into renderer options.
// Call Validate first; an invalid policy falls back to ShrinkDelete.
func (c *Config) EngineOptions() []vdom.Option {
	policy, err := vdom.ParseShrinkPolicy(c.Engine.ShrinkPolicy)
	if err != nil {
		policy = vdom.ShrinkDelete
	}
	return []vdom.Option{vdom.WithShrinkPolicy(policy)}
}

// Address returns the live server listen address.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// IdleTimeout returns the live session idle timeout.
// Call Validate first; an invalid value falls back to DefaultIdleTimeout.
func (c *Config) IdleTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.IdleTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultIdleTimeout)
	}
	return d
}

// NewLogger builds a slog logger writing to w per the log settings.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range append([]string{ConfigFileName}, yamlFileNames...) {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
