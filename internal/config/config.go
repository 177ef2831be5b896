// Package config loads server settings from defaults, a .env file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/zaloga/internal/db"
)

// Session backends.
const (
	SessionsSQL   = "sql"
	SessionsRedis = "redis"
)

// Config holds runtime settings for the server.
type Config struct {
	Addr string

	// Driver is db.DriverSQLite or db.DriverPostgres. DSN is a file path for
	// SQLite and a connection URL for PostgreSQL.
	Driver string
	DSN    string

	Sessions      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SessionSecret signs session cookies. When empty, a key is generated
	// once and kept in the database.
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookie  bool

	BcryptCost int

	LogPath  string
	LogLevel string
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Addr:       ":8080",
		Driver:     db.DriverSQLite,
		DSN:        "zaloga.sqlite3",
		Sessions:   SessionsSQL,
		RedisAddr:  "localhost:6379",
		SessionTTL: 24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
		LogLevel:   "info",
	}
}

// Load builds a Config from defaults, the .env file in the working directory
// (if any), environment variables and finally args. It returns flag.ErrHelp
// when -h is given.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Defaults()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto c.
func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	str("ADDR", &c.Addr)
	str("DB_DRIVER", &c.Driver)
	str("SESSION_BACKEND", &c.Sessions)
	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PASSWORD", &c.RedisPassword)
	str("SESSION_SECRET_KEY", &c.SessionSecret)
	str("LOG_FILE", &c.LogPath)
	str("LOG_LEVEL", &c.LogLevel)

	if v := getenv("DATABASE_URL"); v != "" {
		c.DSN = v
		if getenv("DB_DRIVER") == "" {
			c.Driver = db.DriverPostgres
		}
	} else if host := getenv("DB_HOST"); host != "" {
		c.DSN = postgresDSN(host, getenv("DB_PORT"), getenv("DB_USER"), getenv("DB_PASSWORD"), getenv("DB_NAME"))
		if getenv("DB_DRIVER") == "" {
			c.Driver = db.DriverPostgres
		}
	} else {
		str("DB_PATH", &c.DSN)
	}

	if v := getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.RedisDB = n
	}
	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if v := getenv("SECURE_COOKIE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SECURE_COOKIE: %w", err)
		}
		c.SecureCookie = b
	}
	if v := getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = n
	}

	return nil
}

// postgresDSN composes a connection URL from its parts, escaping the
// credentials.
func postgresDSN(host, port, user, password, name string) string {
	if port == "" {
		port = "5432"
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + name,
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	return u.String()
}

// parseFlags overlays command-line flags onto c.
func (c *Config) parseFlags(args []string) error {
	flags := flag.NewFlagSet("zaloga", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.StringVar(&c.Addr, "addr", c.Addr, "")
	flags.StringVar(&c.Addr, "a", c.Addr, "")

	flags.StringVar(&c.DSN, "db", c.DSN, "")
	flags.StringVar(&c.DSN, "d", c.DSN, "")
	flags.StringVar(&c.Driver, "driver", c.Driver, "")

	flags.StringVar(&c.Sessions, "sessions", c.Sessions, "")
	flags.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "")
	flags.DurationVar(&c.SessionTTL, "session-ttl", c.SessionTTL, "")
	flags.BoolVar(&c.SecureCookie, "secure-cookie", c.SecureCookie, "")
	flags.IntVar(&c.BcryptCost, "bcrypt-cost", c.BcryptCost, "")

	flags.StringVar(&c.LogPath, "log", c.LogPath, "")
	flags.StringVar(&c.LogPath, "l", c.LogPath, "")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flags.Arg(0))
	}
	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	switch c.Driver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.Driver)
	}
	if c.DSN == "" {
		return errors.New("database path or URL required")
	}
	switch c.Sessions {
	case SessionsSQL:
	case SessionsRedis:
		if c.RedisAddr == "" {
			return errors.New("redis address required for redis sessions")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Sessions)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// Usage is the help text for the command-line flags.
const Usage = `Usage: zaloga [flags]

Flags:
  -a, -addr <host:port>     listen address (default: :8080)
  -d, -db <path|url>        SQLite path or PostgreSQL URL (default: zaloga.sqlite3)
  -driver <sqlite|postgres> database driver (default: sqlite)
  -sessions <sql|redis>     session backend (default: sql)
  -redis-addr <host:port>   Redis address for redis sessions (default: localhost:6379)
  -session-ttl <duration>   session lifetime (default: 24h)
  -secure-cookie            mark the session cookie Secure
  -bcrypt-cost <n>          bcrypt cost (default: 10)
  -l, -log <path>           log file path (default: no file, stdout/stderr only)
  -log-level <level>        debug, info, warn or error (default: info)
  -h, -help                 show this help and exit

Environment (also read from .env):
  ADDR, DB_DRIVER, DB_PATH, DATABASE_URL, DB_HOST, DB_PORT, DB_USER,
  DB_PASSWORD, DB_NAME, SESSION_BACKEND, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB,
  SESSION_SECRET_KEY, SESSION_TTL, SECURE_COOKIE, BCRYPT_COST, LOG_FILE,
  LOG_LEVEL
`
