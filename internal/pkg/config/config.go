package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// EnvPrefix is prepended to every environment variable, e.g. CLEANSETEXT_PRESET.
const EnvPrefix = "CLEANSETEXT"

// Output formats understood by the CLI
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StepConfig is one entry of pipeline.steps.
type StepConfig struct {
	Name   string
	Config map[string]interface{}
}

type Config struct {
	// Environment
	Environment string `mapstructure:"env"`
	LogLevel    string `mapstructure:"log_level"`

	// Pipeline
	Preset     string       `mapstructure:"preset"`
	Steps      []StepConfig `mapstructure:"-"`
	TrackDiffs bool         `mapstructure:"track_diffs"`

	// Lexicon
	Language   string `mapstructure:"language"`
	LexiconDir string `mapstructure:"lexicon_dir"`

	// Input / output
	TextField    string `mapstructure:"text_field"`
	OutputFormat string `mapstructure:"output_format"`
	MaxFileSize  int64  `mapstructure:"max_file_size_mb"`

	// ConfigFile is the file the values were read from, empty when none was found
	ConfigFile string `mapstructure:"-"`
}

// Load reads configuration from an optional .env file, an optional YAML config file
// and CLEANSETEXT_* environment variables, in increasing order of precedence.
// When configFile is empty, .cleansetext.yaml is looked up in the working and home directories.
func Load(configFile string) (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.InvalidConfigWrap(err, "failed to read .env file")
	}

	v := viper.New()

	// Set defaults
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "")
	v.SetDefault("preset", "tweet")
	v.SetDefault("track_diffs", false)
	v.SetDefault("language", "english")
	v.SetDefault("lexicon_dir", "")
	v.SetDefault("text_field", "text")
	v.SetDefault("output_format", FormatText)
	v.SetDefault("max_file_size_mb", 100)

	// Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".cleansetext")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, apperrors.InvalidConfigWrap(err, "failed to read config file")
		}
	}

	config := &Config{
		Environment:  v.GetString("env"),
		LogLevel:     v.GetString("log_level"),
		Preset:       v.GetString("preset"),
		TrackDiffs:   v.GetBool("track_diffs"),
		Language:     v.GetString("language"),
		LexiconDir:   v.GetString("lexicon_dir"),
		TextField:    v.GetString("text_field"),
		OutputFormat: strings.ToLower(v.GetString("output_format")),
		MaxFileSize:  v.GetInt64("max_file_size_mb"),
		ConfigFile:   v.ConfigFileUsed(),
	}

	steps, err := parseSteps(v.Get("pipeline.steps"))
	if err != nil {
		return nil, err
	}
	config.Steps = steps

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// parseSteps reads the loosely typed pipeline.steps list
func parseSteps(raw interface{}) ([]StepConfig, error) {
	if raw == nil {
		return nil, nil
	}

	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, apperrors.InvalidConfigWrap(err, "pipeline.steps must be a list")
	}

	steps := make([]StepConfig, 0, len(items))
	for i, item := range items {
		// a bare string names a step with default configuration
		if name, ok := item.(string); ok {
			steps = append(steps, StepConfig{Name: name})
			continue
		}

		entry, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, apperrors.InvalidConfigWrap(err, fmt.Sprintf("pipeline.steps[%d] must be a map", i))
		}

		name := cast.ToString(entry["name"])
		if name == "" {
			return nil, apperrors.InvalidConfig(fmt.Sprintf("pipeline.steps[%d] has no name", i))
		}

		step := StepConfig{Name: name}
		if rawConfig, ok := entry["config"]; ok && rawConfig != nil {
			stepConfig, err := cast.ToStringMapE(rawConfig)
			if err != nil {
				return nil, apperrors.InvalidConfigWrap(err, fmt.Sprintf("pipeline.steps[%d].config must be a map", i))
			}
			step.Config = stepConfig
		}
		steps = append(steps, step)
	}

	return steps, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return apperrors.InvalidConfig(fmt.Sprintf("unknown output format %q", c.OutputFormat)).
			WithDetails("supported", []string{FormatText, FormatJSON, FormatYAML})
	}

	if c.LexiconDir != "" {
		stat, err := os.Stat(c.LexiconDir)
		if err != nil || !stat.IsDir() {
			return apperrors.InvalidConfig(fmt.Sprintf("lexicon_dir %s is not a directory", filepath.Clean(c.LexiconDir)))
		}
	}

	if c.MaxFileSize < 0 {
		return apperrors.InvalidConfig("max_file_size_mb must not be negative")
	}

	return nil
}

// MaxFileSizeBytes converts the configured limit to bytes
func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSize * 1024 * 1024
}

// HasCustomSteps reports whether pipeline.steps overrides the preset
func (c *Config) HasCustomSteps() bool {
	return len(c.Steps) > 0
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LogConfig logs the effective configuration at debug level
func (c *Config) LogConfig(logger *slog.Logger) {
	pipeline := "preset:" + c.Preset
	if c.HasCustomSteps() {
		pipeline = fmt.Sprintf("custom:%d steps", len(c.Steps))
	}

	logger.Debug("configuration loaded",
		slog.String("env", c.Environment),
		slog.String("config_file", c.ConfigFile),
		slog.String("pipeline", pipeline),
		slog.Bool("track_diffs", c.TrackDiffs),
		slog.String("language", c.Language),
		slog.String("lexicon_dir", c.LexiconDir),
		slog.String("text_field", c.TextField),
		slog.String("output_format", c.OutputFormat))
}
