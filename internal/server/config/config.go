// Package config handles configuration for the server component:
// defaults, then environment overlay, then command-line flags.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings for the password manager server.
//
// Fields:
//   - ListenAddr: bind address for the HTTP endpoint.
//   - DatabasePath: path to the SQLite database file (":memory:" for tests).
//   - BotToken: Telegram bot token, the shared secret for initData checks.
//   - SessionTTL: session token lifetime (no renewal flow exists).
//   - SessionSigningSecret: optional; non-empty switches session tokens to HS256 JWT.
//   - MaxInitDataAge: freshness window for initData (replay protection).
//   - AllowedOrigins: CORS origin allowlist.
//   - RateLimit / RateLimitWindow: per-IP request budget.
//   - DevMode: relaxes CORS and adds debug fields to error responses.
//   - InsecureSkipValidation: disables initData signature checks. Debug only.
type Config struct {
	ListenAddr             string
	DatabasePath           string
	BotToken               string
	SessionSigningSecret   string
	AllowedOrigins         []string
	SessionTTL             time.Duration
	MaxInitDataAge         time.Duration
	RateLimit              int
	RateLimitWindow        time.Duration
	DevMode                bool
	InsecureSkipValidation bool
}

// LoadDefaults populates Config with development defaults.
// BotToken намеренно пуст: без него сервер не должен стартовать.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DatabasePath = "passwords.db"
	c.SessionTTL = 7 * 24 * time.Hour
	c.MaxInitDataAge = 24 * time.Hour
	c.AllowedOrigins = []string{
		"https://web.telegram.org",
		"http://localhost",
		"http://127.0.0.1",
	}
	c.RateLimit = 60
	c.RateLimitWindow = time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from environment variables and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg, os.Args[1:])
	return cfg
}

// parseEnv overlays values from environment variables
func parseEnv(c *Config) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.BotToken = v
	}
	if v := os.Getenv("SESSION_SIGNING_SECRET"); v != "" {
		c.SessionSigningSecret = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitOrigins(v)
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SessionTTL = d
		}
	}
	if v := os.Getenv("MAX_INIT_DATA_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxInitDataAge = d
		}
	}
	if v := os.Getenv("DEV_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DevMode = b
		}
	}
}

// parseFlags overlays values from command-line flags
func parseFlags(c *Config, args []string) {
	fs := flag.NewFlagSet("server", flag.ExitOnError)

	fs.StringVar(&c.ListenAddr, "a", c.ListenAddr, "address and port to run server")
	fs.StringVar(&c.DatabasePath, "d", c.DatabasePath, "path to SQLite database file")
	fs.StringVar(&c.BotToken, "t", c.BotToken, "Telegram bot token")
	fs.StringVar(&c.SessionSigningSecret, "s", c.SessionSigningSecret,
		"session signing secret (empty = unsigned tokens)")
	fs.BoolVar(&c.DevMode, "dev", c.DevMode, "development mode")
	fs.BoolVar(&c.InsecureSkipValidation, "insecure-skip-validation", c.InsecureSkipValidation,
		"skip initData signature checks (debug only, never use in production)")

	origins := fs.String("o", "", "comma-separated CORS origin allowlist")

	_ = fs.Parse(args)

	if *origins != "" {
		c.AllowedOrigins = splitOrigins(*origins)
	}
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
