package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix       = "MICROTASK"
	envConfigDir    = "MICROTASK_CONFIG_DIR"
	defaultDirName  = ".microtask"
	defaultKey      = "microtask.appstate"
	defaultBackend  = "sqlite"
	defaultLogLevel = "warn"
	defaultWidth    = 48
	configFileName  = "config"
)

// Config holds user settings. Flags override these per invocation.
type Config struct {
	Dir        string `mapstructure:"dir"`
	Backend    string `mapstructure:"backend"`
	StorageKey string `mapstructure:"storage_key"`
	LogLevel   string `mapstructure:"log_level"`
	Width      int    `mapstructure:"width"`
}

// Dir returns the config directory: $MICROTASK_CONFIG_DIR, else ~/.microtask.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching the home dir).
	if v := strings.TrimSpace(os.Getenv(envConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultDirName), nil
}

// Load reads config.{json,toml,yaml} from Dir() if present, then MICROTASK_* env vars.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetDefault("dir", filepath.Join(dir, "data"))
	v.SetDefault("backend", defaultBackend)
	v.SetDefault("storage_key", defaultKey)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("width", defaultWidth)

	v.AddConfigPath(dir)
	v.SetConfigName(configFileName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	return c, nil
}
