package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
//
// Values are resolved once at startup, lowest to highest precedence:
// defaults, the JSON config file, then the process environment (a .env file
// is loaded into the environment first without overriding variables that
// are already set). The API key typed by a user at search time is only used
// when none of these provide one, see TicketmasterConfig.ResolveAPIKey.
type Config struct {
	Server       ServerConfig       `json:"server"`
	Database     DatabaseConfig     `json:"database"`
	Ticketmaster TicketmasterConfig `json:"ticketmaster"`
	Access       AccessConfig       `json:"access"`
	RateLimit    RateLimitConfig    `json:"rate_limit"`
	Logger       LoggerConfig       `json:"logger"`
}

// ServerConfig for HTTP server settings
type ServerConfig struct {
	Port           string   `json:"port"`
	ReadTimeout    int      `json:"read_timeout_seconds"`
	WriteTimeout   int      `json:"write_timeout_seconds"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// DatabaseConfig for the sqlite search log
type DatabaseConfig struct {
	Path string `json:"path"`
}

// TicketmasterConfig for Ticketmaster Discovery API
type TicketmasterConfig struct {
	APIKey         string `json:"api_key"`
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// AccessConfig for the password gate
type AccessConfig struct {
	Password          string `json:"password"`
	PasswordHash      string `json:"password_hash"`
	SessionSecret     string `json:"session_secret"`
	SessionTTLMinutes int    `json:"session_ttl_minutes"`
}

// RateLimitConfig for per-client limits on search endpoints
type RateLimitConfig struct {
	RequestsPerMinute int `json:"requests_per_minute"`
	Burst             int `json:"burst"`
}

type LoggerConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values using the pattern SHOWFINDER_SECTION_KEY.
// envFiles are loaded with godotenv before overrides are applied; with none
// given, ".env" in the working directory is tried.
func Load(configPath string, envFiles ...string) (*Config, error) {
	config := &Config{}

	// Load from file if it exists
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load(envFiles...)

	applyDefaults(config)
	applyEnvOverrides(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30
	}
	if config.Database.Path == "" {
		config.Database.Path = "./showfinder.db"
	}
	if config.Ticketmaster.BaseURL == "" {
		config.Ticketmaster.BaseURL = "https://app.ticketmaster.com/discovery/v2"
	}
	if config.Ticketmaster.TimeoutSeconds == 0 {
		config.Ticketmaster.TimeoutSeconds = 25
	}
	if config.Access.SessionTTLMinutes == 0 {
		config.Access.SessionTTLMinutes = 12 * 60
	}
	if config.RateLimit.RequestsPerMinute == 0 {
		config.RateLimit.RequestsPerMinute = 30
	}
	if config.RateLimit.Burst == 0 {
		config.RateLimit.Burst = 5
	}
	if config.Logger.Level == "" {
		config.Logger.Level = "info"
	}
	if config.Logger.Format == "" {
		config.Logger.Format = "text"
	}
}

func applyEnvOverrides(config *Config) {
	// Server overrides
	if v := os.Getenv("SHOWFINDER_SERVER_PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("SHOWFINDER_ALLOWED_ORIGINS"); v != "" {
		config.Server.AllowedOrigins = splitList(v)
	}

	if v := os.Getenv("SHOWFINDER_DATABASE_PATH"); v != "" {
		config.Database.Path = v
	}

	// Ticketmaster overrides. TICKETMASTER_KEY is the name operators used
	// before the SHOWFINDER_ prefix existed.
	if v := firstEnv("SHOWFINDER_TICKETMASTER_API_KEY", "TICKETMASTER_KEY"); v != "" {
		config.Ticketmaster.APIKey = v
	}
	if v := os.Getenv("SHOWFINDER_TICKETMASTER_BASE_URL"); v != "" {
		config.Ticketmaster.BaseURL = v
	}
	if v := envInt("SHOWFINDER_TICKETMASTER_TIMEOUT_SECONDS"); v > 0 {
		config.Ticketmaster.TimeoutSeconds = v
	}

	// Access overrides
	if v := firstEnv("SHOWFINDER_APP_PASSWORD", "APP_PASSWORD"); v != "" {
		config.Access.Password = v
	}
	if v := os.Getenv("SHOWFINDER_APP_PASSWORD_HASH"); v != "" {
		config.Access.PasswordHash = v
	}
	if v := os.Getenv("SHOWFINDER_SESSION_SECRET"); v != "" {
		config.Access.SessionSecret = v
	}
	if v := envInt("SHOWFINDER_SESSION_TTL_MINUTES"); v > 0 {
		config.Access.SessionTTLMinutes = v
	}

	if v := envInt("SHOWFINDER_RATE_LIMIT_PER_MINUTE"); v > 0 {
		config.RateLimit.RequestsPerMinute = v
	}

	if v := os.Getenv("SHOWFINDER_LOG_LEVEL"); v != "" {
		config.Logger.Level = v
	}
	if v := os.Getenv("SHOWFINDER_LOG_FORMAT"); v != "" {
		config.Logger.Format = v
	}
}

// ResolveAPIKey returns the configured key, falling back to a key entered
// interactively for a single search. Empty means no key is available.
func (c *TicketmasterConfig) ResolveAPIKey(interactive string) string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return strings.TrimSpace(interactive)
}

// Timeout returns the upstream request timeout
func (c *TicketmasterConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionTTL returns how long an issued session stays valid
func (c *AccessConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// PasswordConfigured reports whether the gate has a server-side password.
// Without one, any non-empty password is let through.
func (c *AccessConfig) PasswordConfigured() bool {
	return c.Password != "" || c.PasswordHash != ""
}

// Validate checks if required configurations are present
func (c *Config) Validate() error {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "server.port")
	}
	if c.Database.Path == "" {
		missing = append(missing, "database.path")
	}
	if c.Ticketmaster.BaseURL == "" {
		missing = append(missing, "ticketmaster.base_url")
	}
	if c.Ticketmaster.TimeoutSeconds <= 0 {
		missing = append(missing, "ticketmaster.timeout_seconds")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
