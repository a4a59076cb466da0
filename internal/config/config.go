package config

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	sslModeDisable = "disable"
	sslModeRequire = "require"
)

type (
	Config struct {
		Host          string `mapstructure:"HOST"`
		Port          string `mapstructure:"PORT"`
		DBHost        string `mapstructure:"DB_HOST"`
		DBPort        string `mapstructure:"DB_PORT"`
		DBUser        string `mapstructure:"DB_USER"`
		DBPassword    string `mapstructure:"DB_PASSWORD"`
		DBName        string `mapstructure:"DB_NAME"`
		DBSSLMode     string `mapstructure:"DB_SSL_MODE"`
		JWTSecret     string `mapstructure:"JWT_SECRET"`
		JWTExpireDays int    `mapstructure:"JWT_EXPIRE_DAYS"`
		YouTubeAPIKey string `mapstructure:"YOUTUBE_API_KEY"`
		LogLevel      string `mapstructure:"LOG_LEVEL"`
	}
)

func NewConfig() (*Config, error) {
	viper.SetEnvPrefix("ACADEMICHUB")

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("DB_HOST", "0.0.0.0")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "academichub")
	viper.SetDefault("DB_SSL_MODE", sslModeDisable)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRE_DAYS", 30)
	viper.SetDefault("YOUTUBE_API_KEY", "")
	viper.SetDefault("LOG_LEVEL", "info")

	envs := []string{
		"HOST", "PORT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"JWT_SECRET", "JWT_EXPIRE_DAYS", "YOUTUBE_API_KEY", "LOG_LEVEL",
	}
	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT secret is not set")
	}
	if cfg.JWTExpireDays <= 0 {
		return errors.New(fmt.Sprintf("JWT expire days is invalid: %d", cfg.JWTExpireDays))
	}

	validSSLValues := []string{sslModeDisable, sslModeRequire}
	for _, validValue := range validSSLValues {
		if cfg.DBSSLMode == validValue {
			return nil
		}
	}
	return errors.New(fmt.Sprintf("DB SSL mode is invalid: %s", cfg.DBSSLMode))
}
