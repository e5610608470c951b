// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

// DefaultAgents is the roster used when neither AGENTS_FILE nor AGENT_EMAILS is set.
var DefaultAgents = []entity.Agent{
	{Email: "agenta@gmail.com", Name: "Agent A"},
	{Email: "agentb@gmail.com", Name: "Agent B"},
	{Email: "agentc@gmail.com", Name: "Agent C"},
}

type Config struct {
	Port           string
	Version        string
	AllowedOrigins []string
	RequestLogging bool
	TrustProxy     bool

	DBDriver   string
	DBURL      string
	SQLitePath string

	AMQPURL  string
	RedisURL string

	RateLimit       int
	RateLimitWindow time.Duration

	SweepInterval time.Duration

	GeminiAPIKey string
	GeminiModel  string

	Mail  MailConfig
	Kommo KommoConfig
	Auth  AuthConfig

	Agents []entity.Agent
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

type KommoConfig struct {
	APIToken string
	BaseURL  string
	StatusID int
}

func (k KommoConfig) Enabled() bool {
	return k.APIToken != ""
}

type AuthConfig struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string
	Audience     string
}

// Enabled reports whether bearer tokens are verified. Without a key the API
// runs in open mode.
func (a AuthConfig) Enabled() bool {
	return a.Secret != "" || a.PublicKeyPEM != ""
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Version:         getEnv("APP_VERSION", "dev"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		RequestLogging:  getEnvBool("REQUEST_LOGGING", true),
		TrustProxy:      getEnvBool("TRUST_PROXY", false),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBURL:           getEnv("DATABASE_URL", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "./data/leads.db"),
		AMQPURL:         getEnv("AMQP_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		RateLimit:       getEnvInt("RATE_LIMIT", 10),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", time.Minute),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		Mail: MailConfig{
			Host:     getEnv("MAIL_HOST", ""),
			Port:     getEnvInt("MAIL_PORT", 587),
			User:     getEnv("MAIL_USER", ""),
			Password: getEnv("MAIL_PASS", ""),
			From:     getEnv("MAIL_FROM", "leads@polyglot.local"),
		},
		Kommo: KommoConfig{
			APIToken: getEnv("KOMMO_API_TOKEN", ""),
			BaseURL:  getEnv("KOMMO_URL", ""),
			StatusID: getEnvInt("KOMMO_STATUS_ID", 0),
		},
		Auth: AuthConfig{
			Secret:   getEnv("AUTH_JWT_SECRET", ""),
			Issuer:   getEnv("AUTH_ISSUER", ""),
			Audience: getEnv("AUTH_AUDIENCE", ""),
		},
	}

	if path := getEnv("AUTH_PUBLIC_KEY_FILE", ""); path != "" {
		pem, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read AUTH_PUBLIC_KEY_FILE: %w", err)
		}
		cfg.Auth.PublicKeyPEM = string(pem)
	}

	agents, err := loadAgents(getEnv("AGENTS_FILE", ""), getEnv("AGENT_EMAILS", ""))
	if err != nil {
		return nil, err
	}
	cfg.Agents = agents

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	switch c.DBDriver {
	case "postgres", "pgx":
		if c.DBURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", c.DBDriver)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH cannot be empty")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be postgres, pgx or sqlite, got %q", c.DBDriver)
	}
	if c.RateLimit <= 0 {
		return errors.New("RATE_LIMIT must be > 0")
	}
	if c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be > 0")
	}
	if c.SweepInterval <= 0 {
		return errors.New("SWEEP_INTERVAL must be > 0")
	}
	if c.Auth.Secret != "" && c.Auth.PublicKeyPEM != "" {
		return errors.New("set either AUTH_JWT_SECRET or AUTH_PUBLIC_KEY_FILE, not both")
	}
	if c.Kommo.Enabled() && c.Kommo.BaseURL == "" {
		return errors.New("KOMMO_URL is required when KOMMO_API_TOKEN is set")
	}
	if len(c.Agents) == 0 {
		return errors.New("the agent roster is empty")
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver != "sqlite" {
		return c.DBURL
	}
	return c.SQLitePath
}

type agentsFile struct {
	Agents []entity.Agent `yaml:"agents"`
}

// loadAgents prefers the YAML roster, then the comma separated email list.
func loadAgents(path, emails string) ([]entity.Agent, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read AGENTS_FILE: %w", err)
		}
		var f agentsFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse AGENTS_FILE: %w", err)
		}
		return f.Agents, nil
	}

	if list := splitList(emails); len(list) > 0 {
		agents := make([]entity.Agent, 0, len(list))
		for _, email := range list {
			agents = append(agents, entity.Agent{Email: email})
		}
		return agents, nil
	}

	out := make([]entity.Agent, len(DefaultAgents))
	copy(out, DefaultAgents)
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
