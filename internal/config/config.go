// apps/go-server/internal/config/config.go
//
// Typed configuration read from the environment (after godotenv has loaded
// any .env file). Defaults match local development.

package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DevJWTSecret is the fallback signing secret. Refused in production.
const DevJWTSecret = "dev_secret_change_me"

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	Auth    AuthConfig
	Session SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `env:"PORT"             env-default:"5175"`
	ClientOrigin    string        `env:"CLIENT_ORIGIN"    env-default:"http://localhost:5173"`
	Env             string        `env:"NODE_ENV"         env-default:"development"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DBConfig holds the SQLite location.
type DBConfig struct {
	Path string `env:"DB_PATH" env-default:"./data/flashcards.db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"` // json | console
}

// AuthConfig holds token and cookie settings.
type AuthConfig struct {
	JWTSecret      string `env:"JWT_SECRET"       env-default:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" env-default:"14"`
	CookieName     string `env:"COOKIE_NAME"      env-default:"flashcards_token"`
}

// SessionConfig holds study-session settings.
type SessionConfig struct {
	MatchRoundSize   int           `env:"MATCH_ROUND_SIZE"   env-default:"6"`
	MatchSettleDelay time.Duration `env:"MATCH_SETTLE_DELAY" env-default:"500ms"`
	TTL              time.Duration `env:"SESSION_TTL"        env-default:"2h"`
}

// Production reports whether NODE_ENV is "production".
func (c *Config) Production() bool { return c.Server.Env == "production" }

// TokenTTL is the lifetime of an issued auth token.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.JWTExpiresDays) * 24 * time.Hour
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate performs rule checks on a loaded configuration.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console (got %q)", c.Log.Format)
	}
	if c.Auth.JWTExpiresDays < 1 {
		return fmt.Errorf("jwt_expires_days must be >= 1 (got %d)", c.Auth.JWTExpiresDays)
	}
	if c.Production() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DevJWTSecret) {
		return fmt.Errorf("jwt_secret must be set in production")
	}
	if c.Session.MatchRoundSize < 1 {
		return fmt.Errorf("match_round_size must be >= 1 (got %d)", c.Session.MatchRoundSize)
	}
	if c.Session.MatchSettleDelay < 0 {
		return fmt.Errorf("match_settle_delay must be >= 0 (got %s)", c.Session.MatchSettleDelay)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session_ttl must be > 0 (got %s)", c.Session.TTL)
	}
	return nil
}
