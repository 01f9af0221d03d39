package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	FDC        FDCConfig
	Cache      CacheConfig
	Matching   MatchingConfig
	Units      UnitsConfig
	Processing ProcessingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FDCConfig holds USDA FoodData Central API configuration
type FDCConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
}

// CacheConfig holds density-cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds density-matching tunables
type MatchingConfig struct {
	MinSimilarity      float64 `mapstructure:"min_similarity"`
	ExternalConfidence float64 `mapstructure:"external_confidence"`
	SearchLimit        int     `mapstructure:"search_limit"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// UnitsConfig holds unit-conversion preferences
type UnitsConfig struct {
	PreferredSystem          string `mapstructure:"preferred_system"` // "metric" or "imperial"
	PreferredVolumeUnit      string `mapstructure:"preferred_volume_unit"`
	PreferredWeightUnit      string `mapstructure:"preferred_weight_unit"`
	PreferredTemperatureUnit string `mapstructure:"preferred_temperature_unit"`
}

// ProcessingConfig holds normalization pipeline toggles
type ProcessingConfig struct {
	EnableEnrichment bool `mapstructure:"enable_enrichment"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/platewise/")

	// Environment variable settings
	v.SetEnvPrefix("PLATEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// FDC defaults. The empty api_key default registers the key so the
	// PLATEWISE_FDC_API_KEY environment variable is picked up.
	v.SetDefault("fdc.api_key", "")
	v.SetDefault("fdc.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("fdc.timeout", "10s")
	v.SetDefault("fdc.retry_count", 3)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Matching defaults
	v.SetDefault("matching.min_similarity", 0.6)
	v.SetDefault("matching.external_confidence", 0.8)
	v.SetDefault("matching.search_limit", 3)
	v.SetDefault("matching.enable_debug_logging", false)

	// Units defaults
	v.SetDefault("units.preferred_system", "metric")
	v.SetDefault("units.preferred_volume_unit", "ml")
	v.SetDefault("units.preferred_weight_unit", "g")
	v.SetDefault("units.preferred_temperature_unit", "C")

	// Processing defaults
	v.SetDefault("processing.enable_enrichment", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Units.PreferredSystem != "metric" && config.Units.PreferredSystem != "imperial" {
		return fmt.Errorf("preferred system must be 'metric' or 'imperial', got: %s", config.Units.PreferredSystem)
	}

	if config.Matching.MinSimilarity < 0 || config.Matching.MinSimilarity > 1 {
		return fmt.Errorf("matching min_similarity must be in [0, 1], got: %g", config.Matching.MinSimilarity)
	}

	return nil
}
