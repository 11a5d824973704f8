package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Payment PaymentConfig `mapstructure:"payment"`
	Media   MediaConfig   `mapstructure:"media"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type PaymentConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
	BaseURL   string `mapstructure:"base_url"`
	Currency  string `mapstructure:"currency"`
}

type MediaConfig struct {
	Root string `mapstructure:"root"`
}

type CacheConfig struct {
	AnalyticsTTL time.Duration `mapstructure:"analytics_ttl"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.electioncart/")
	v.AddConfigPath("/etc/electioncart/")

	// Enable environment variable override with ELECTIONCART_ prefix
	v.SetEnvPrefix("ELECTIONCART")
	v.AutomaticEnv()

	v.SetDefault("payment.base_url", "https://api.razorpay.com/v1")
	v.SetDefault("payment.currency", "INR")
	v.SetDefault("media.root", "./media")
	v.SetDefault("cache.analytics_ttl", 5*time.Minute)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
