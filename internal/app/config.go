package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the Mimir core.
type Config struct {
	LogLevel    string            `mapstructure:"log_level"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

// StorageConfig locates the durable key-value directory.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// AuthConfig captures lockout and session settings.
type AuthConfig struct {
	LockoutThreshold int           `mapstructure:"lockout_threshold"`
	LockoutDuration  time.Duration `mapstructure:"lockout_duration"`
	LogoutDelay      time.Duration `mapstructure:"logout_delay"`
}

// MaintenanceConfig controls the background attempt-record sweep.
type MaintenanceConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	SweepSchedule string `mapstructure:"sweep_schedule"`
}

// LoadConfig initialises configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("MIMIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("storage.data_dir", "./data")

	v.SetDefault("auth.lockout_threshold", 5)
	v.SetDefault("auth.lockout_duration", "30m")
	v.SetDefault("auth.logout_delay", "2s")

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.sweep_schedule", "@hourly")
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}
