package config

// Viper configuration loader: reads taskq.yaml and produces the evaluation
// settings the query engine runs with.

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/boolean-maybe/taskq/query"
	"github.com/boolean-maybe/taskq/task"
)

// Config holds all application configuration loaded from taskq.yaml
type Config struct {
	// Logging configuration
	Logging struct {
		Level string `mapstructure:"level"` // "debug", "info", "warn", "error"
	} `mapstructure:"logging"`

	// Query evaluation configuration
	Query struct {
		CaseSensitive bool   `mapstructure:"caseSensitive"`
		StrictFields  bool   `mapstructure:"strictFields"`
		WeekStart     string `mapstructure:"weekStart"` // "monday" or "sunday"
	} `mapstructure:"query"`

	// Keyword vocabularies; each maps a canonical keyword to its synonyms.
	// Merged over the built-in defaults.
	Keywords struct {
		States     map[string][]string `mapstructure:"states"`
		Priorities map[string][]string `mapstructure:"priorities"`
	} `mapstructure:"keywords"`
}

var appConfig *Config

// LoadConfig loads configuration from taskq.yaml
// Priority order (first found wins): current directory → user config dir
// If taskq.yaml doesn't exist, it uses default values
func LoadConfig() (*Config, error) {
	// Reset viper to clear any previous configuration
	viper.Reset()

	viper.SetConfigName("taskq")
	viper.SetConfigType("yaml")

	// Add search paths in priority order (first added = highest priority)
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "taskq"))
	}

	setDefaults()

	// Read the config file (if it exists)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("no taskq.yaml found, using defaults")
		} else {
			slog.Error("error reading config file", "error", err)
			return nil, err
		}
	} else {
		slog.Debug("loaded configuration", "file", viper.ConfigFileUsed())
	}

	// Allow environment variables to override config file
	viper.SetEnvPrefix("TASKQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := bindFlags(); err != nil {
		slog.Warn("failed to bind command line flags", "error", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		slog.Error("failed to unmarshal config", "error", err)
		return nil, err
	}

	appConfig = cfg
	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("logging.level", "error")

	viper.SetDefault("query.caseSensitive", false)
	viper.SetDefault("query.strictFields", false)
	viper.SetDefault("query.weekStart", "monday")
}

// bindFlags binds supported command line flags to viper so they can override config values.
func bindFlags() error {
	flagSet := pflag.NewFlagSet("taskq", pflag.ContinueOnError)
	flagSet.ParseErrorsWhitelist.UnknownFlags = true
	flagSet.SetOutput(io.Discard)

	flagSet.String("log-level", "", "Log level (debug, info, warn, error)")
	flagSet.Bool("case-sensitive", false, "Match terms case-sensitively")
	flagSet.Bool("strict", false, "Fail on unknown filter fields instead of skipping them")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	if err := viper.BindPFlag("logging.level", flagSet.Lookup("log-level")); err != nil {
		return err
	}
	if flagSet.Changed("case-sensitive") {
		if err := viper.BindPFlag("query.caseSensitive", flagSet.Lookup("case-sensitive")); err != nil {
			return err
		}
	}
	if flagSet.Changed("strict") {
		if err := viper.BindPFlag("query.strictFields", flagSet.Lookup("strict")); err != nil {
			return err
		}
	}
	return nil
}

// GetConfig returns the loaded configuration
// If config hasn't been loaded yet, it loads it first
func GetConfig() *Config {
	if appConfig == nil {
		cfg, err := LoadConfig()
		if err != nil {
			// If loading fails, return a config with defaults
			slog.Warn("failed to load config, using defaults", "error", err)
			setDefaults()
			cfg = &Config{}
			_ = viper.Unmarshal(cfg)
		}
		appConfig = cfg
	}
	return appConfig
}

// Settings builds the evaluation settings for one filter run, anchored to
// the given reference time. Configured keyword synonyms are merged over the
// built-in vocabularies.
func (c *Config) Settings(ref time.Time) query.Settings {
	s := query.DefaultSettings(ref)
	s.CaseSensitive = c.Query.CaseSensitive
	s.StrictFields = c.Query.StrictFields
	if strings.EqualFold(c.Query.WeekStart, "sunday") {
		s.WeekStart = time.Sunday
	}
	mergeKeywords(s.States, c.Keywords.States)
	mergeKeywords(s.Priorities, c.Keywords.Priorities)
	return s
}

func mergeKeywords(dst task.KeywordSet, extra map[string][]string) {
	for canonical, synonyms := range extra {
		dst[strings.ToLower(canonical)] = synonyms
	}
}
