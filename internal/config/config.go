package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Seed     SeedConfig     `yaml:"seed"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        string `yaml:"port" env:"SERVER_PORT"`
	Host        string `yaml:"host" env:"SERVER_HOST"`
	StoragePath string `yaml:"storagePath" env:"STORAGE_PATH"`
	BaseURL     string `yaml:"baseUrl" env:"SERVER_BASE_URL"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     string `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"sslMode" env:"DB_SSLMODE"`
	MaxConns int    `yaml:"maxConns" env:"DB_MAX_CONNS"`
}

// JWTConfig holds token settings
type JWTConfig struct {
	SecretKey       string        `yaml:"secretKey" env:"JWT_SECRET_KEY"`
	AccessTokenExp  time.Duration `yaml:"accessTokenExp" env:"JWT_ACCESS_TOKEN_EXP"`
	RefreshTokenExp time.Duration `yaml:"refreshTokenExp" env:"JWT_REFRESH_TOKEN_EXP"`
	TokenIssuer     string        `yaml:"tokenIssuer" env:"JWT_TOKEN_ISSUER"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
}

// SeedConfig holds default data settings
type SeedConfig struct {
	AdminEmail    string `yaml:"adminEmail" env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `yaml:"adminPassword" env:"SEED_ADMIN_PASSWORD"`
}

// LoadConfig reads configuration from a YAML file, then applies
// environment variable overrides. A .env file is loaded first if present.
func LoadConfig(path string) (*Config, error) {
	// Best effort; a missing .env file is not an error
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := processStructFields(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is not configured")
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			Host:        "0.0.0.0",
			StoragePath: "./uploads",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "ljcourses",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		JWT: JWTConfig{
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: 7 * 24 * time.Hour,
			TokenIssuer:     "ljcourses",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
		Seed: SeedConfig{
			AdminEmail: "admin@ljcourses.dev",
		},
	}
}

// GetPostgresConnectionString builds the pgx connection string
func (c *Config) GetPostgresConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
