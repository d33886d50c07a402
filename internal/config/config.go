package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port          string `yaml:"port" env:"SERVER_PORT"`
		Mode          string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath   string `yaml:"storage_path" env:"STORAGE_PATH"`
		PublicBaseURL string `yaml:"public_base_url" env:"PUBLIC_BASE_URL"`
		FrontendURL   string `yaml:"frontend_url" env:"FRONTEND_URL"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Session struct {
		Secret       string `yaml:"secret" env:"SESSION_SECRET"`
		TTL          string `yaml:"ttl" env:"SESSION_TTL"`
		Issuer       string `yaml:"issuer" env:"SESSION_ISSUER"`
		CookieName   string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		CookieSecure bool   `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE"`
	} `yaml:"session"`

	Auth struct {
		InstitutionDomain  string   `yaml:"institution_domain" env:"INSTITUTION_DOMAIN"`
		GoogleClientID     string   `yaml:"google_client_id" env:"GOOGLE_CLIENT_ID"`
		GoogleClientSecret string   `yaml:"google_client_secret" env:"GOOGLE_CLIENT_SECRET"`
		GoogleRedirectURL  string   `yaml:"google_redirect_url" env:"GOOGLE_REDIRECT_URL"`
		BootstrapAdmins    []string `yaml:"bootstrap_admins" env:"BOOTSTRAP_ADMINS"`
	} `yaml:"auth"`

	SMTP struct {
		Host        string `yaml:"host" env:"SMTP_HOST"`
		Port        int    `yaml:"port" env:"SMTP_PORT"`
		Username    string `yaml:"username" env:"SMTP_USERNAME"`
		Password    string `yaml:"password" env:"SMTP_PASSWORD"`
		FromAddress string `yaml:"from_address" env:"SMTP_FROM_ADDRESS"`
		FromName    string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		UseTLS      bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from .env, a YAML file and environment
// variables, in that order of increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	config.Auth.InstitutionDomain = validation.NormalizeDomainSuffix(config.Auth.InstitutionDomain)
	for i, email := range config.Auth.BootstrapAdmins {
		config.Auth.BootstrapAdmins[i] = validation.NormalizeEmail(email)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "./uploads"
	config.Server.PublicBaseURL = "http://localhost:8080"
	config.Server.FrontendURL = "http://localhost:3000"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "hostelhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// Session defaults
	config.Session.TTL = "24h"
	config.Session.Issuer = "hostelhub"
	config.Session.CookieName = "hostelhub_session"

	// SMTP defaults
	config.SMTP.Port = 587
	config.SMTP.FromName = "Hostel Office"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if len(config.Session.Secret) < 32 {
		return fmt.Errorf("session secret must be at least 32 characters")
	}
	if _, err := time.ParseDuration(config.Session.TTL); err != nil {
		return fmt.Errorf("invalid session ttl format: %w", err)
	}

	if front := config.Server.FrontendURL; front != "" &&
		!strings.HasPrefix(front, "http://") && !strings.HasPrefix(front, "https://") {
		return fmt.Errorf("server frontend_url %q must start with http:// or https://", front)
	}

	domain := config.Auth.InstitutionDomain
	if domain == "" {
		return fmt.Errorf("auth institution_domain is required")
	}
	if !strings.Contains(domain, ".") || strings.ContainsAny(domain, " @/") {
		return fmt.Errorf("auth institution_domain %q is not a domain name", domain)
	}

	for _, email := range config.Auth.BootstrapAdmins {
		if !validation.IsInstitutionalEmail(email, domain) {
			return fmt.Errorf("bootstrap admin %q is not an institutional address", email)
		}
	}

	if config.Auth.GoogleClientID != "" && config.Auth.GoogleRedirectURL == "" {
		return fmt.Errorf("auth google_redirect_url is required when google_client_id is set")
	}

	return nil
}

// SessionTTL returns the parsed session lifetime
func (c *Config) SessionTTL() time.Duration {
	ttl, err := time.ParseDuration(c.Session.TTL)
	if err != nil {
		return 24 * time.Hour
	}
	return ttl
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
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
