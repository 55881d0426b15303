package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultJWTSecret is the development fallback. Running with it outside
// development is logged as a warning.
const DefaultJWTSecret = "your-secret-key-change-in-production"

var ErrEmptyJWTSecret = errors.New("JWT_SECRET must not be empty")

type Config struct {
	Env  string `envconfig:"ENV" default:"development"`
	Port string `envconfig:"PORT" default:"3000"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	PGUser      string `envconfig:"PGUSER" default:"postgres"`
	PGHost      string `envconfig:"PGHOST" default:"localhost"`
	PGDatabase  string `envconfig:"PGDATABASE" default:"materrax"`
	PGPassword  string `envconfig:"PGPASSWORD"`
	PGPort      string `envconfig:"PGPORT" default:"5432"`
	PGSSLMode   string `envconfig:"PGSSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL"`

	JWTSecret  string `envconfig:"JWT_SECRET" default:"your-secret-key-change-in-production"`
	BcryptCost int    `envconfig:"BCRYPT_COST" default:"10"`

	DistDir   string `envconfig:"DIST_DIR" default:"dist"`
	PublicDir string `envconfig:"PUBLIC_DIR" default:"public"`
	LogDir    string `envconfig:"LOG_DIR"`

	MigrateOnStart  bool          `envconfig:"MIGRATE_ON_START" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, ErrEmptyJWTSecret
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// PostgresURL returns DATABASE_URL when set, otherwise a DSN assembled from
// the PG* variables.
func (c *Config) PostgresURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.PGHost, c.PGPort),
		Path:   "/" + c.PGDatabase,
	}
	if c.PGPassword != "" {
		u.User = url.UserPassword(c.PGUser, c.PGPassword)
	} else {
		u.User = url.User(c.PGUser)
	}

	q := url.Values{}
	q.Set("sslmode", c.PGSSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
