package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvDefault     = "default"

	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

var (
	ErrMissingSetting     = errors.New("required setting is missing")
	ErrUnknownEnvironment = errors.New("unknown environment")
	ErrInsecureSecret     = errors.New("insecure secret in production")
)

// Placeholder secrets that must never reach a production deployment.
var insecureSecrets = map[string]bool{
	"dev-secret-key": true,
	"jwt-secret-key": true,
}

type Config struct {
	Environment     string        `yaml:"environment"`
	DatabaseURL     string        `yaml:"database_url"`
	SecretKey       string        `yaml:"secret_key"`
	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	Debug           bool          `yaml:"debug"`
	CORSHeaders     []string      `yaml:"cors_headers"`
	BcryptCost      int           `yaml:"bcrypt_cost"`
	// MetricsAddr is the listen address for /metrics; empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load resolves the named environment and reads the process environment once.
// An empty name falls back to APP_ENV, then to development. A YAML file named
// by CONFIG_FILE is applied on top of the preset before environment variables.
func Load(env string) (*Config, error) {
	if env == "" {
		env = getEnv("APP_ENV", EnvDefault)
	}

	cfg, err := preset(env)
	if err != nil {
		return nil, err
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", cfg.JWTSecretKey)
	cfg.MetricsAddr = getEnv("METRICS_ADDR", cfg.MetricsAddr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func preset(env string) (*Config, error) {
	cfg := &Config{
		AccessTokenTTL:  AccessTokenTTL,
		RefreshTokenTTL: RefreshTokenTTL,
		CORSHeaders:     []string{"Content-Type"},
	}

	switch strings.ToLower(strings.TrimSpace(env)) {
	case EnvDevelopment, EnvDefault:
		cfg.Environment = EnvDevelopment
		cfg.Debug = true
	case EnvProduction:
		cfg.Environment = EnvProduction
		cfg.Debug = false
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnvironment, env)
	}
	return cfg, nil
}

// applyFile overlays non-empty values from a YAML file. The environment name
// itself cannot be changed from the file.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
	}
	if file.SecretKey != "" {
		c.SecretKey = file.SecretKey
	}
	if file.JWTSecretKey != "" {
		c.JWTSecretKey = file.JWTSecretKey
	}
	if file.AccessTokenTTL > 0 {
		c.AccessTokenTTL = file.AccessTokenTTL
	}
	if file.RefreshTokenTTL > 0 {
		c.RefreshTokenTTL = file.RefreshTokenTTL
	}
	if len(file.CORSHeaders) > 0 {
		c.CORSHeaders = file.CORSHeaders
	}
	if file.BcryptCost > 0 {
		c.BcryptCost = file.BcryptCost
	}
	if file.MetricsAddr != "" {
		c.MetricsAddr = file.MetricsAddr
	}
	return nil
}

// Validate fails fast on missing secrets instead of substituting defaults.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if c.JWTSecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}

	if c.IsProduction() && (insecureSecrets[c.SecretKey] || insecureSecrets[c.JWTSecretKey]) {
		return ErrInsecureSecret
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
