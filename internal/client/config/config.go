// Package config loads the client-side configuration: where the backend
// lives and where the credential file sits. Values come from an optional
// YAML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
)

// Config holds the client settings.
type Config struct {
	// BaseURL is the backend root, e.g. https://api.palmlink.example.
	BaseURL string `mapstructure:"baseURL" validate:"required|fullUrl"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
	// TokenPath locates the credential file. Empty means the per-user
	// default under the OS config directory.
	TokenPath string `mapstructure:"tokenPath"`
}

// Load reads the config from dir (empty means the per-user config
// directory), applies PALMLINK_* environment overrides and validates the
// result. A missing file is fine; defaults and environment still apply.
func Load(dir string) (*Config, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "palmlink")
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("baseURL", "http://localhost:8080")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("tokenPath", "")

	_ = v.BindEnv("baseURL", "PALMLINK_BASE_URL")
	_ = v.BindEnv("timeout", "PALMLINK_TIMEOUT")
	_ = v.BindEnv("tokenPath", "PALMLINK_TOKEN_PATH")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	check := validate.Struct(cfg)
	if !check.Validate() {
		return fmt.Errorf("invalid config: %s", check.Errors.One())
	}
	return nil
}
