package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                   string        `mapstructure:"PORT"`
	Env                    string        `mapstructure:"ENV"`
	DatabaseURL            string        `mapstructure:"DATABASE_URL"`
	RedisAddr              string        `mapstructure:"REDIS_ADDR"`
	JWTSecret              string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL         time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL        time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	CORSOrigins            string        `mapstructure:"CORS_ORIGINS"`
	SMTPHost               string        `mapstructure:"SMTP_HOST"`
	SMTPPort               int           `mapstructure:"SMTP_PORT"`
	EmailUser              string        `mapstructure:"EMAIL_USER"`
	EmailPass              string        `mapstructure:"EMAIL_PASS"`
	CloudinaryCloudName    string        `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey       string        `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret    string        `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryUploadPreset string        `mapstructure:"CLOUDINARY_UPLOAD_PRESET"`
	ReportSchedule         string        `mapstructure:"REPORT_SCHEDULE"`
	DashboardCacheTTL      time.Duration `mapstructure:"DASHBOARD_CACHE_TTL"`
	AdminEmail             string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword          string        `mapstructure:"ADMIN_PASSWORD"`
}

const devJWTSecret = "careforme_dev_secret"

var keys = []string{
	"PORT", "ENV", "DATABASE_URL", "REDIS_ADDR", "JWT_SECRET",
	"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "CORS_ORIGINS",
	"SMTP_HOST", "SMTP_PORT", "EMAIL_USER", "EMAIL_PASS",
	"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET", "CLOUDINARY_UPLOAD_PRESET",
	"REPORT_SCHEDULE", "DASHBOARD_CACHE_TTL", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("REPORT_SCHEDULE", "0 8 * * 1")
	v.SetDefault("DASHBOARD_CACHE_TTL", "60s")
	v.SetDefault("ADMIN_EMAIL", "admin@careforme.com")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.JWTSecret == "" && cfg.IsDev() {
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AllowedOrigins returns CORS_ORIGINS in the comma separated form fiber's cors
// middleware expects, with blanks trimmed.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}

// MailEnabled reports whether SMTP is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.EmailUser != ""
}

// CloudinaryEnabled reports whether picture uploads are configured.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
