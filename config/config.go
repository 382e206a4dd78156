package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Retailer RetailerConfig
	Cache    CacheConfig
	Matching MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RetailerConfig holds retailer aggregation API configuration
type RetailerConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds price cache configuration
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// MatchingConfig holds the engine's thresholds
type MatchingConfig struct {
	FuzzyThreshold           float64 `mapstructure:"fuzzy_threshold"`
	BrandSimilarityThreshold float64 `mapstructure:"brand_similarity_threshold"`
	DealSimilarityThreshold  float64 `mapstructure:"deal_similarity_threshold"`
	LineConfidenceThreshold  float64 `mapstructure:"line_confidence_threshold"`
	EnableDebugLogging       bool    `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cartwise/")

	// Environment variable settings
	v.SetEnvPrefix("CARTWISE")
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
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Retailer API defaults. The api_key default registers the key so the
	// CARTWISE_RETAILER_API_KEY env var is picked up during unmarshal.
	v.SetDefault("retailer.api_key", "")
	v.SetDefault("retailer.base_url", "https://api.cartwise.app/retail")

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")
	v.SetDefault("cache.max_entries", 1000)

	// Matching defaults
	v.SetDefault("matching.fuzzy_threshold", 0.6)
	v.SetDefault("matching.brand_similarity_threshold", 0.8)
	v.SetDefault("matching.deal_similarity_threshold", 0.9)
	v.SetDefault("matching.line_confidence_threshold", 0.6)
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Retailer.BaseURL == "" {
		return fmt.Errorf("retailer API base URL is required (set CARTWISE_RETAILER_BASE_URL)")
	}

	if config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive, got: %d", config.Cache.MaxEntries)
	}

	thresholds := map[string]float64{
		"matching.fuzzy_threshold":            config.Matching.FuzzyThreshold,
		"matching.brand_similarity_threshold": config.Matching.BrandSimilarityThreshold,
		"matching.deal_similarity_threshold":  config.Matching.DealSimilarityThreshold,
		"matching.line_confidence_threshold":  config.Matching.LineConfidenceThreshold,
	}
	for name, value := range thresholds {
		if value <= 0 || value > 1 {
			return fmt.Errorf("%s must be in (0, 1], got: %v", name, value)
		}
	}

	return nil
}
