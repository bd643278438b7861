// Package config loads application configuration from the
// environment, with an optional YAML overlay for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment" validate:"oneof=development staging production"`

	// AWS configuration
	AWSRegion     string `yaml:"aws_region" validate:"required"`
	DynamoDBTable string `yaml:"dynamodb_table" validate:"required"`
	EventBusName  string `yaml:"event_bus_name"`

	// Lambda configuration
	IsLambda bool `yaml:"is_lambda"`

	// Classification oracle
	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`

	// Aggregation tuning
	TemporalWindowMinutes int `yaml:"temporal_window_minutes" validate:"min=1"`
	TrajectoryWindowDays  int `yaml:"trajectory_window_days" validate:"min=1"`
	GraphMinFrequency     int `yaml:"graph_min_frequency" validate:"min=1"`
	GraphNodeCap          int `yaml:"graph_node_cap" validate:"min=1"`
	QueryCacheTTLSeconds  int `yaml:"query_cache_ttl_seconds" validate:"min=0"`

	// Authentication
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	// Logging and features
	LogLevel      string `yaml:"log_level"`
	EnableMetrics bool   `yaml:"enable_metrics"`
	EnableCORS    bool   `yaml:"enable_cors"`
}

// LoadConfig reads the environment, overlays the optional YAML file
// named by CONFIG_FILE, and validates the result.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "identity-compass")),
		EventBusName:  getEnv("EVENT_BUS_NAME", "identity-compass-events"),

		IsLambda: getEnvBool("IS_LAMBDA", os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", ""),

		TemporalWindowMinutes: getEnvInt("TEMPORAL_WINDOW_MINUTES", 30),
		TrajectoryWindowDays:  getEnvInt("TRAJECTORY_WINDOW_DAYS", 30),
		GraphMinFrequency:     getEnvInt("GRAPH_MIN_FREQUENCY", 2),
		GraphNodeCap:          getEnvInt("GRAPH_NODE_CAP", 300),
		QueryCacheTTLSeconds:  getEnvInt("QUERY_CACHE_TTL_SECONDS", 60),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "identity-compass"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig.
func Load() (*Config, error) {
	return LoadConfig()
}

// overlayFile applies YAML values on top of the env-derived config.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
	}
	return nil
}

// TemporalWindow returns the linking window as a duration.
func (c *Config) TemporalWindow() time.Duration {
	return time.Duration(c.TemporalWindowMinutes) * time.Minute
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
