package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required"`
	LogLevel    string `validate:"required"`
	AWS         AWSConfig
	Demo        DemoConfig
	RateLimit   RateLimitConfig
}

// AWSConfig holds AWS client configuration
type AWSConfig struct {
	Region string `validate:"required"`
	// EndpointURL overrides the AWS endpoint, for localstack runs
	EndpointURL    string
	S3UsePathStyle bool
}

// DemoConfig holds the identifiers for the demonstration lookups.
// These are environment-resolved placeholders, not real routing; the
// transport may override them per request via path parameters.
type DemoConfig struct {
	TableName   string `validate:"required"`
	ItemID      string `validate:"required"`
	ItemKeyAttr string `validate:"required"`
	BucketName  string `validate:"required"`
	ObjectKey   string `validate:"required"`
}

// RateLimitConfig holds request throttling configuration for server mode
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"min=1"`
	BurstSize         int     `validate:"min=1"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT_URL", "")
	viper.SetDefault("AWS_S3_USE_PATH_STYLE", false)
	viper.SetDefault("DEMO_TABLE_NAME", "demo-items")
	viper.SetDefault("DEMO_ITEM_ID", "demo-item")
	viper.SetDefault("DEMO_ITEM_KEY_ATTR", "id")
	viper.SetDefault("DEMO_BUCKET_NAME", "demo-bucket")
	viper.SetDefault("DEMO_OBJECT_KEY", "demo-object.txt")
	viper.SetDefault("REQUESTS_PER_SECOND", 10.0)
	viper.SetDefault("BURST_SIZE", 20)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		AWS: AWSConfig{
			Region:         viper.GetString("AWS_REGION"),
			EndpointURL:    viper.GetString("AWS_ENDPOINT_URL"),
			S3UsePathStyle: viper.GetBool("AWS_S3_USE_PATH_STYLE"),
		},
		Demo: DemoConfig{
			TableName:   viper.GetString("DEMO_TABLE_NAME"),
			ItemID:      viper.GetString("DEMO_ITEM_ID"),
			ItemKeyAttr: viper.GetString("DEMO_ITEM_KEY_ATTR"),
			BucketName:  viper.GetString("DEMO_BUCKET_NAME"),
			ObjectKey:   viper.GetString("DEMO_OBJECT_KEY"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("REQUESTS_PER_SECOND"),
			BurstSize:         viper.GetInt("BURST_SIZE"),
		},
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt gets an environment variable as integer with a fallback value
func GetEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
