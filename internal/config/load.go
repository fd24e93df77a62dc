package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. DESCBENCH_LOG_LEVEL or DESCBENCH_DATABASE_URL.
const EnvPrefix = "DESCBENCH"

// Load configuration from environment variables and optionally a
// descbench.yaml file in the working directory or $HOME/.descbench.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load(viper.New())
}

// LoadFile behaves like Load but reads settings from an explicit file,
// which must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Every key needs a default so that AutomaticEnv can see it during Unmarshal.
	v.SetDefault("log.level", "info")
	v.SetDefault("database.url", "")
	v.SetDefault("runner.config_dir", "config")
	v.SetDefault("runner.migration_timeout", 30)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("descbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.descbench")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
