// Package config loads runtime settings from defaults, an optional YAML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvProduction is the Environment value that enables secure cookies and
// strict validation.
const EnvProduction = "production"

// minProductionSecretLen is the HS256 key size floor enforced in production.
const minProductionSecretLen = 32

// Config holds the settings for the storefront server.
type Config struct {
	Addr        string `yaml:"addr"`
	Environment string `yaml:"environment"`
	DatabaseURL string `yaml:"database_url"`
	JWTSecret   string `yaml:"jwt_secret"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	AdminEmail  string `yaml:"admin_email"`
	RedisURL    string `yaml:"redis_url"`

	// AdminPassword seeds the in-memory store. It is ignored with DATABASE_URL.
	AdminPassword string `yaml:"admin_password"`

	Upload UploadConfig `yaml:"upload"`
	OIDC   OIDCConfig   `yaml:"oidc"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// UploadConfig selects the blob store. S3 is used when Bucket is set,
// otherwise files go to Dir and are served under /uploads/.
type UploadConfig struct {
	Dir       string `yaml:"dir"`
	Bucket    string `yaml:"s3_bucket"`
	Region    string `yaml:"s3_region"`
	Endpoint  string `yaml:"s3_endpoint"`
	AccessKey string `yaml:"s3_access_key"`
	SecretKey string `yaml:"s3_secret_key"`
	PublicURL string `yaml:"s3_public_url"`
}

// OIDCConfig configures optional single sign-on for admins.
type OIDCConfig struct {
	Issuer       string `yaml:"issuer"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Enabled reports whether SSO is configured.
func (o OIDCConfig) Enabled() bool {
	return o.Issuer != ""
}

// Default returns development defaults. JWTSecret is intentionally empty.
func Default() Config {
	return Config{
		Addr:            ":8080",
		Environment:     "development",
		LogLevel:        "info",
		LogFormat:       "text",
		AdminEmail:      "admin@yasargranit.com",
		ShutdownTimeout: 10 * time.Second,
		Upload: UploadConfig{
			Dir:    "uploads",
			Region: "us-east-1",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg, os.LookupEnv)
	return &cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("ADDR", &cfg.Addr)
	set("ENVIRONMENT", &cfg.Environment)
	set("DATABASE_URL", &cfg.DatabaseURL)
	set("JWT_SECRET", &cfg.JWTSecret)
	set("LOG_LEVEL", &cfg.LogLevel)
	set("LOG_FORMAT", &cfg.LogFormat)
	set("ADMIN_EMAIL", &cfg.AdminEmail)
	set("ADMIN_PASSWORD", &cfg.AdminPassword)
	set("REDIS_URL", &cfg.RedisURL)

	set("UPLOAD_DIR", &cfg.Upload.Dir)
	set("S3_BUCKET", &cfg.Upload.Bucket)
	set("S3_REGION", &cfg.Upload.Region)
	set("S3_ENDPOINT", &cfg.Upload.Endpoint)
	set("S3_ACCESS_KEY", &cfg.Upload.AccessKey)
	set("S3_SECRET_KEY", &cfg.Upload.SecretKey)
	set("S3_PUBLIC_URL", &cfg.Upload.PublicURL)

	set("OIDC_ISSUER", &cfg.OIDC.Issuer)
	set("OIDC_CLIENT_ID", &cfg.OIDC.ClientID)
	set("OIDC_CLIENT_SECRET", &cfg.OIDC.ClientSecret)
	set("OIDC_REDIRECT_URL", &cfg.OIDC.RedirectURL)
}

// IsProduction reports whether the deployment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Validate checks settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.JWTSecret) < minProductionSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes in production", minProductionSecretLen))
	}
	if c.IsProduction() && c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required in production"))
	}
	if c.OIDC.Enabled() && (c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "") {
		errs = append(errs, errors.New("OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required when OIDC_ISSUER is set"))
	}
	return errors.Join(errs...)
}
