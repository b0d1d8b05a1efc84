package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Database configuration
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	DatabaseHost       string `mapstructure:"DB_HOST"`
	DatabasePort       string `mapstructure:"DB_PORT"`
	DatabaseUser       string `mapstructure:"DB_USER"`
	DatabasePassword   string `mapstructure:"DB_PASSWORD"`
	DatabaseName       string `mapstructure:"DB_NAME"`
	DatabaseSSLMode    string `mapstructure:"DB_SSL_MODE"`
	StatementTimeoutMS int    `mapstructure:"DB_STATEMENT_TIMEOUT_MS"`

	// JWT configuration
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// CORS configuration
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	// Access code configuration
	AccessCodeTTLHours int `mapstructure:"ACCESS_CODE_TTL_HOURS"`

	// Media collaborator configuration
	MediaStoreURL string `mapstructure:"MEDIA_STORE_URL"`
	MediaCacheURL string `mapstructure:"MEDIA_CACHE_URL"`
	MediaDisabled bool   `mapstructure:"MEDIA_DISABLED"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Build database URL if not provided
	if config.DatabaseURL == "" {
		config.DatabaseURL = buildDatabaseURL(&config)
	}

	// Validate required fields
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// Database defaults
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "teamup")
	viper.SetDefault("DB_SSL_MODE", "disable")
	// Explicit statement timeout; never inherit the server default
	viper.SetDefault("DB_STATEMENT_TIMEOUT_MS", 5000)

	// JWT defaults
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")

	// CORS defaults
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"})

	// Access codes rotate on demand; expiry is a backstop
	viper.SetDefault("ACCESS_CODE_TTL_HOURS", 24*30)

	// Media defaults: disabled locally, endpoints set in deployment
	viper.SetDefault("MEDIA_STORE_URL", "")
	viper.SetDefault("MEDIA_CACHE_URL", "")
	viper.SetDefault("MEDIA_DISABLED", true)
}

// buildDatabaseURL assembles a postgres DSN. The statement timeout rides on
// the DSN as a server run-time parameter so every pooled connection gets it.
func buildDatabaseURL(config *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&statement_timeout=%d",
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseName,
		config.DatabaseSSLMode,
		config.StatementTimeoutMS,
	)
}

func validate(config *Config) error {
	if config.Environment == "production" {
		if config.JWTSecret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if config.MediaDisabled {
			return fmt.Errorf("media collaborators must be configured in production")
		}
	}

	if config.DatabaseName == "" {
		return fmt.Errorf("database name is required")
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
