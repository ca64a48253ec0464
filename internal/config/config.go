// Package config loads tada settings with viper. Precedence, highest first:
// flags, TADA_* environment variables, config file, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/storage"
)

// Config keys.
const (
	KeyBackend    = "backend"
	KeyDataDir    = "data_dir"
	KeyStorageKey = "storage_key"
	KeyIDScheme   = "id_scheme"
	KeyTheme      = "theme"
	KeyColor      = "color"
	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
	KeyLogFile    = "log_file"
)

const (
	configFileName = "tada"
	envPrefix      = "TADA"
)

// Config is the resolved configuration.
type Config struct {
	Backend    string `mapstructure:"backend"`
	DataDir    string `mapstructure:"data_dir"`
	StorageKey string `mapstructure:"storage_key"`
	IDScheme   string `mapstructure:"id_scheme"`
	Theme      string `mapstructure:"theme"`
	Color      string `mapstructure:"color"` // auto, always, never
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	LogFile    string `mapstructure:"log_file"`

	// ConfigFile is the file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// New returns a viper instance with defaults and environment binding set.
// Flags are bound by the caller before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBackend, storage.BackendFile)
	v.SetDefault(KeyDataDir, ".")
	v.SetDefault(KeyStorageKey, model.StorageKey)
	v.SetDefault(KeyIDScheme, string(model.IDTimestamp))
	v.SetDefault(KeyTheme, "classic")
	v.SetDefault(KeyColor, "auto")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and returns the validated result.
// An explicit configFile must exist; otherwise tada.{yaml,toml,json} is
// looked up in the working directory and $HOME/.config/tada, and a
// missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tada"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	if !slices.Contains(storage.Backends(), strings.ToLower(c.Backend)) {
		return fmt.Errorf("config %s: unknown backend %q (want one of %s)",
			KeyBackend, c.Backend, strings.Join(storage.Backends(), ", "))
	}
	if _, err := model.NewIDGenerator(model.IDScheme(c.IDScheme)); err != nil {
		return fmt.Errorf("config %s: %w", KeyIDScheme, err)
	}
	switch strings.ToLower(c.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config %s: want auto, always or never, got %q", KeyColor, c.Color)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("config %s: must not be empty", KeyStorageKey)
	}
	return nil
}
