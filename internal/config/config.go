// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// DevelopmentSecret signs tokens when JWT_SECRET is unset outside production.
const DevelopmentSecret = "dev-secret-change-in-production"

// Config holds every setting the API needs; it is built once in main and
// handed to constructors.
type Config struct {
	Env string `env:"APP_ENV" envDefault:"development"`

	Port     string `env:"PORT" envDefault:"8001"`
	GRPCPort string `env:"GRPC_PORT"` // empty disables the gRPC health listener

	MongoURI          string `env:"MONGODB_URI,required,notEmpty"`
	MongoDatabase     string `env:"MONGODB_DATABASE" envDefault:"security_app"`
	DBConnectAttempts int    `env:"DB_CONNECT_ATTEMPTS" envDefault:"5"`

	RedisURL string `env:"REDIS_URL"` // empty keeps the token denylist in memory

	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// TLS is served on both listeners when cert and key are set.
	TLSCert    string `env:"TLS_CERT"`
	TLSKey     string `env:"TLS_KEY"`
	RequireTLS bool   `env:"REQUIRE_TLS"`

	OTELEndpoint string `env:"OTEL_ENDPOINT"`
	OTELEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks invariants and fills the development secret when allowed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == DevelopmentSecret {
		if c.IsProduction() {
			return errors.New("JWT_SECRET must be set in production")
		}
		c.JWTSecret = DevelopmentSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if c.DBConnectAttempts < 1 {
		c.DBConnectAttempts = 1
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	if c.RequireTLS && !c.TLSEnabled() {
		return errors.New("REQUIRE_TLS is true but TLS_CERT/TLS_KEY are not configured")
	}
	return nil
}

// TLSEnabled reports whether a certificate pair is configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// UsesDevelopmentSecret reports whether tokens are signed with the built-in
// development secret.
func (c *Config) UsesDevelopmentSecret() bool {
	return c.JWTSecret == DevelopmentSecret
}
