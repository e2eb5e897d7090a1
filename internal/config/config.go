// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: CLI flags > environment variables > config file > embedded > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "300ms" or "1s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all application configuration.
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Logging   LoggingConfig   `yaml:"logging"`
	Window    WindowConfig    `yaml:"window"`
	Autostart AutostartConfig `yaml:"autostart"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// WindowConfig tunes window state persistence.
type WindowConfig struct {
	Quiescence Duration `yaml:"quiescence"`
	Width      uint32   `yaml:"width"`
	Height     uint32   `yaml:"height"`
}

// AutostartConfig tunes the login autostart entry.
type AutostartConfig struct {
	// Target is the program registered to launch at login. Empty means the
	// UI host that started serve; CLI subcommands require it to be set.
	Target    string   `yaml:"target"`
	ValueName string   `yaml:"value_name"`
	Attempts  int      `yaml:"attempts"`
	Backoff   Duration `yaml:"backoff"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "",
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Window: WindowConfig{
			Quiescence: Duration{300 * time.Millisecond},
			Width:      320,
			Height:     400,
		},
		Autostart: AutostartConfig{
			ValueName: "tasklet",
			Attempts:  3,
			Backoff:   Duration{100 * time.Millisecond},
		},
	}
}

// CLIOverrides holds values from command-line flags.
// Empty strings are treated as "not set" and skipped.
type CLIOverrides struct {
	DataDir         string
	LogLevel        string
	LogFile         string
	AutostartTarget string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > external YAML file > embedded bytes > defaults.
//
// An optional configPath argument controls external-file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value  → use that path ("" means no external file)
func LoadLayered(cli CLIOverrides, embedded []byte, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	if len(embedded) > 0 {
		if err := yaml.Unmarshal(embedded, cfg); err != nil {
			return nil, fmt.Errorf("parsing embedded config: %w", err)
		}
	}

	var filePath string
	if len(configPath) > 0 {
		filePath = configPath[0]
	} else {
		filePath = Locate()
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cli.DataDir != "" {
		cfg.DataDir = cli.DataDir
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.Logging.File = cli.LogFile
	}
	if cli.AutostartTarget != "" {
		cfg.Autostart.Target = cli.AutostartTarget
	}

	return cfg, cfg.Validate()
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}

func applyEnvOverrides(cfg *Config) error {
	if dir := os.Getenv("TASKLET_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if level := os.Getenv("TASKLET_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if file := os.Getenv("TASKLET_LOG_FILE"); file != "" {
		cfg.Logging.File = file
	}
	if target := os.Getenv("TASKLET_AUTOSTART_TARGET"); target != "" {
		cfg.Autostart.Target = target
	}
	if q := os.Getenv("TASKLET_WINDOW_QUIESCENCE"); q != "" {
		d, err := time.ParseDuration(q)
		if err != nil {
			return fmt.Errorf("TASKLET_WINDOW_QUIESCENCE: %w", err)
		}
		cfg.Window.Quiescence = Duration{d}
	}
	if n := os.Getenv("TASKLET_AUTOSTART_ATTEMPTS"); n != "" {
		attempts, err := strconv.Atoi(n)
		if err != nil {
			return fmt.Errorf("TASKLET_AUTOSTART_ATTEMPTS: %w", err)
		}
		cfg.Autostart.Attempts = attempts
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if c.Window.Quiescence.Duration <= 0 {
		return fmt.Errorf("window quiescence must be positive (got %s)", c.Window.Quiescence.Duration)
	}
	if c.Autostart.Attempts < 1 {
		return fmt.Errorf("autostart attempts must be at least 1 (got %d)", c.Autostart.Attempts)
	}
	if c.Autostart.Backoff.Duration < 0 {
		return fmt.Errorf("autostart backoff must not be negative")
	}
	if c.Autostart.Target != "" && !filepath.IsAbs(c.Autostart.Target) {
		return fmt.Errorf("autostart target must be an absolute path (got %q)", c.Autostart.Target)
	}
	if strings.TrimSpace(c.Autostart.ValueName) == "" {
		return fmt.Errorf("autostart value name is required")
	}
	return nil
}
