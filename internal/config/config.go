package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string `yaml:"port" env:"SERVER_PORT"`
		Mode           string `yaml:"mode" env:"SERVER_MODE"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES"`
		CookieSecure   bool   `yaml:"cookie_secure" env:"SERVER_COOKIE_SECURE"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret            string `yaml:"secret" env:"JWT_SECRET"`
		SessionExpiration string `yaml:"session_expiration" env:"JWT_SESSION_EXPIRATION"`
		Issuer            string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Session struct {
		Driver string `yaml:"driver" env:"SESSION_DRIVER"`
	} `yaml:"session"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
		Path   string `yaml:"path" env:"STORAGE_PATH"`
		S3     struct {
			Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
			Region          string `yaml:"region" env:"S3_REGION"`
			Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
			AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
			SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
			UsePathStyle    bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
		} `yaml:"s3"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Seed struct {
		Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults plus env are enough to boot.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "7700"
	config.Server.Mode = "development"
	config.Server.MaxUploadBytes = 1 << 30

	// Database defaults
	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "coursehub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	// JWT defaults
	config.JWT.SessionExpiration = "24h"
	config.JWT.Issuer = "coursehub.app"

	config.Session.Driver = "memory"
	config.Redis.Addr = "localhost:6379"

	config.Storage.Driver = "local"
	config.Storage.Path = "uploads"
	config.Storage.S3.Region = "us-east-1"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "postgres":
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.SessionExpiration); err != nil {
		return fmt.Errorf("invalid JWT session expiration format: %w", err)
	}

	switch config.Session.Driver {
	case "memory":
	case "redis":
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis session driver")
		}
	default:
		return fmt.Errorf("unsupported session driver %q", config.Session.Driver)
	}

	switch config.Storage.Driver {
	case "local":
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required")
		}
	case "s3":
		if config.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", config.Storage.Driver)
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server max_upload_bytes must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// SessionTTL returns the parsed session lifetime.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.SessionExpiration)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
