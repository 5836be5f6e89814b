// Package config loads the process-wide settings once at startup. The returned
// Config is treated as read-only and handed to each component explicitly.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Mail      MailConfig
	Google    GoogleConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type AppConfig struct {
	Env         string `envconfig:"APP_ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"3001"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	// TrustProxy makes the rate limiter key on forwarding headers set by a reverse proxy.
	TrustProxy bool `envconfig:"TRUST_PROXY" default:"false"`
}

type DBConfig struct {
	URL  string `envconfig:"DATABASE_URL"`
	Host string `envconfig:"DB_HOST"`
	Port string `envconfig:"DB_PORT" default:"5432"`
	User string `envconfig:"DB_USER"`
	Pass string `envconfig:"DB_PASS"`
	Name string `envconfig:"DB_NAME"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"50"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"5m"`
}

type RedisConfig struct {
	Endpoint string `envconfig:"REDIS_ENDPOINT"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (r RedisConfig) Enabled() bool {
	return r.Endpoint != ""
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

type MailConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SMTP_PORT" default:"465"`
	User     string `envconfig:"MAIL_USER"`
	Password string `envconfig:"MAIL_PASSWORD"`
	From     string `envconfig:"MAIL_FROM"`
}

// Sender returns the From address, falling back to the SMTP login.
func (m MailConfig) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.User
}

type GoogleConfig struct {
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	TokenURL     string `envconfig:"GOOGLE_TOKEN_URL" default:"https://oauth2.googleapis.com/token"`
	RedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL" default:"postmessage"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`
	Max    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
}

type LogConfig struct {
	AccessPath string `envconfig:"ACCESS_LOG_PATH" default:"access.log"`
	DBPath     string `envconfig:"DB_LOG_PATH" default:"db.log"`
	MailPath   string `envconfig:"MAIL_LOG_PATH" default:"mail.log"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.App.Env != EnvDevelopment && cfg.App.Env != EnvProduction {
		return nil, fmt.Errorf("unknown APP_ENV %q", cfg.App.Env)
	}
	return &cfg, nil
}

// LoadDB reads only the database settings, for tools that never serve requests.
func LoadDB() (DBConfig, error) {
	_ = godotenv.Load()

	var db DBConfig
	if err := envconfig.Process("", &db); err != nil {
		return DBConfig{}, fmt.Errorf("parsing db config: %w", err)
	}
	return db, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, EnvProduction)
}

func (c *Config) ListenAddr() string {
	if strings.Contains(c.App.Port, ":") {
		return c.App.Port
	}
	return ":" + c.App.Port
}
