// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultDatabaseDriver            = DriverSQLite
	defaultDatabasePath              = "./data/reelhouse.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultDatabaseEnableWAL         = true
	defaultMigrationsPath            = "file://./migrations"
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultAuthIssuer                = "reelhouse"
	defaultAuthAudience              = "reelhouse-api"
	defaultAuthTokenTTL              = 24 * time.Hour
	defaultAuthLeewaySeconds         = 60
	defaultAuthBcryptCost            = 10
	envPrefix                        = "REELHOUSE"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// bcrypt cost bounds (mirrors golang.org/x/crypto/bcrypt MinCost/MaxCost)
const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver            string
	Path              string
	DSN               string
	ConnectionTimeout time.Duration
	EnableWAL         bool
	MigrationsPath    string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// AuthConfig holds token signing and password hashing configuration
type AuthConfig struct {
	Secret        string
	Issuer        string
	Audience      string
	TokenTTL      time.Duration
	LeewaySeconds int
	BcryptCost    int
}

// Leeway returns the allowed clock skew for token time claims
func (a AuthConfig) Leeway() time.Duration {
	return time.Duration(a.LeewaySeconds) * time.Second
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/reelhouse")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)
	v.SetDefault("server.allowedorigins", []string{"http://localhost:4200"})

	// Database defaults
	v.SetDefault("database.driver", defaultDatabaseDriver)
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.enablewal", defaultDatabaseEnableWAL)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	// Auth defaults (no default secret: it must be provided)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", defaultAuthIssuer)
	v.SetDefault("auth.audience", defaultAuthAudience)
	v.SetDefault("auth.tokenttl", defaultAuthTokenTTL)
	v.SetDefault("auth.leewayseconds", defaultAuthLeewaySeconds)
	v.SetDefault("auth.bcryptcost", defaultAuthBcryptCost)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	validDrivers := []string{DriverSQLite, DriverPostgres}
	if !contains(validDrivers, c.Database.Driver) {
		return fmt.Errorf("invalid database driver: %s (must be one of: %s)", c.Database.Driver, strings.Join(validDrivers, ", "))
	}
	if c.Database.Driver == DriverPostgres && c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required for the %s driver", DriverPostgres)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if c.Auth.Issuer == "" {
		return fmt.Errorf("auth issuer must not be empty")
	}
	if c.Auth.Audience == "" {
		return fmt.Errorf("auth audience must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid token ttl: %v (must be > 0)", c.Auth.TokenTTL)
	}
	if c.Auth.LeewaySeconds < 0 {
		return fmt.Errorf("invalid token leeway: %d (must be >= 0)", c.Auth.LeewaySeconds)
	}
	if c.Auth.BcryptCost < minBcryptCost || c.Auth.BcryptCost > maxBcryptCost {
		return fmt.Errorf("invalid bcrypt cost: %d (must be between %d and %d)", c.Auth.BcryptCost, minBcryptCost, maxBcryptCost)
	}

	// The signing secret is checked by auth.NewTokenService at startup

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
