package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"skilltree/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address" validate:"required"`
	Environment   string `yaml:"environment" validate:"oneof=development staging production test"`

	// Upstream chat-completion API
	GroqAPIKey      string        `yaml:"-"`
	GroqBaseURL     string        `yaml:"groq_base_url" validate:"required,url"`
	GroqModel       string        `yaml:"groq_model" validate:"required"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" validate:"gt=0"`

	// Sessions
	SessionTTL           time.Duration `yaml:"session_ttl" validate:"gte=0"`
	SessionSweepInterval time.Duration `yaml:"session_sweep_interval" validate:"gte=0"`

	// CORS
	AllowedOrigin string `yaml:"cors_allowed_origin" validate:"required"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Feature flags
	EnableMetrics bool   `yaml:"enable_metrics"`
	EnableTracing bool   `yaml:"enable_tracing"`
	OTLPEndpoint  string `yaml:"otlp_endpoint"`

	// ConfigFile is the YAML file this config was read from, if any
	ConfigFile string `yaml:"-"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		ServerAddress:        ":5000",
		Environment:          "development",
		GroqBaseURL:          "https://api.groq.com/openai/v1",
		GroqModel:            "llama-3.3-70b-versatile",
		UpstreamTimeout:      30 * time.Second,
		SessionTTL:           2 * time.Hour,
		SessionSweepInterval: 5 * time.Minute,
		AllowedOrigin:        "http://localhost:5173",
		LogLevel:             "info",
		OTLPEndpoint:         "localhost:4317",
	}
}

// LoadConfig loads configuration from, in increasing priority: defaults,
// the YAML file named by CONFIG_FILE, a .env file, and the environment.
func LoadConfig() (*Config, error) {
	return Load(os.Getenv("CONFIG_FILE"), ".env")
}

// Load reads configFile (optional) and envFile (optional) then applies
// environment variables on top. Existing environment variables are never
// overwritten by the .env file.
func Load(configFile, envFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := cfg.loadYAML(configFile); err != nil {
			return nil, err
		}
		cfg.ConfigFile = configFile
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.GroqAPIKey = getEnv("GROQ_API_KEY", c.GroqAPIKey)
	c.GroqBaseURL = getEnv("GROQ_BASE_URL", c.GroqBaseURL)
	c.GroqModel = getEnv("GROQ_MODEL", c.GroqModel)
	c.UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", c.UpstreamTimeout)
	c.SessionTTL = getEnvDuration("SESSION_TTL", c.SessionTTL)
	c.SessionSweepInterval = getEnvDuration("SESSION_SWEEP_INTERVAL", c.SessionSweepInterval)
	c.AllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", c.AllowedOrigin)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.GroqAPIKey == "" && !c.IsTest() {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsTest checks if running under tests
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value == "yes"
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
