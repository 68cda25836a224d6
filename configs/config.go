package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	SchemaDir     string   `yaml:"schema_dir"`
	BundlePath    string   `yaml:"bundle_path"`
	ExcludedFiles []string `yaml:"excluded_files"`
	LogLevel      string   `yaml:"log_level"`
}

// Config holds the final application configuration, merged from file and environment variables.
// Fields are loaded from environment variables with the prefix "MSGGEN_", overriding file settings.
type Config struct {
	// Config File Path (loaded first from env). Empty means env/defaults only.
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	SchemaDir  string `envconfig:"SCHEMA_DIR" default:"doc/schemas" validate:"required"`
	BundlePath string `envconfig:"BUNDLE_PATH" default:"contrib/msggen/msggen/schema.json" validate:"required"`
	// ExcludedFiles are method schema files produced from the bundle by a
	// later build step; they are never bundled.
	ExcludedFiles []string `envconfig:"EXCLUDED_FILES" default:"lightning-sql.json" validate:"dive,required,endswith=.json"`

	LogLevel                 string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load loads configuration first from environment variables (to get file path),
// then from the specified YAML file, and finally overrides with environment variables again.
func Load() (*Config, error) {
	// 1. Load initial config from Env (primarily to get ConfigFilePath)
	var initialCfg Config
	if err := envconfig.Process("msggen", &initialCfg); err != nil {
		return nil, fmt.Errorf("failed to process initial environment variables: %w", err)
	}

	finalCfg := initialCfg

	// 2. Apply the YAML file if one is named. A named file that cannot be read is an error.
	if initialCfg.ConfigFilePath != "" {
		yamlFile, err := os.ReadFile(initialCfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", initialCfg.ConfigFilePath, err)
		}
		var fileCfg FileConfig
		if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", initialCfg.ConfigFilePath, err)
		}
		slog.Info("Loaded configuration from file.", "path", initialCfg.ConfigFilePath)
		fileCfg.applyTo(&finalCfg)

		// 3. Process environment variables AGAIN so explicit env settings win over the file.
		if err := overrideFromEnv(&finalCfg); err != nil {
			return nil, err
		}
	}

	if err := finalCfg.Validate(); err != nil {
		return nil, err
	}
	return &finalCfg, nil
}

func (f FileConfig) applyTo(cfg *Config) {
	if f.SchemaDir != "" {
		cfg.SchemaDir = f.SchemaDir
	}
	if f.BundlePath != "" {
		cfg.BundlePath = f.BundlePath
	}
	if f.ExcludedFiles != nil {
		cfg.ExcludedFiles = f.ExcludedFiles
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
}

// overrideFromEnv re-applies only the variables that are actually set, so
// envconfig defaults do not clobber values read from the file.
func overrideFromEnv(cfg *Config) error {
	var env struct {
		SchemaDir     *string   `envconfig:"SCHEMA_DIR"`
		BundlePath    *string   `envconfig:"BUNDLE_PATH"`
		ExcludedFiles *[]string `envconfig:"EXCLUDED_FILES"`
		LogLevel      *string   `envconfig:"LOG_LEVEL"`
	}
	if err := envconfig.Process("msggen", &env); err != nil {
		return fmt.Errorf("failed to process overriding environment variables: %w", err)
	}
	if env.SchemaDir != nil {
		cfg.SchemaDir = *env.SchemaDir
	}
	if env.BundlePath != nil {
		cfg.BundlePath = *env.BundlePath
	}
	if env.ExcludedFiles != nil {
		cfg.ExcludedFiles = *env.ExcludedFiles
	}
	if env.LogLevel != nil {
		cfg.LogLevel = *env.LogLevel
	}
	return nil
}
