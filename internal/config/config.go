// Package config reads the server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"weighttracker/internal/adapter/sqlstore"
)

// DriverMemory keeps records in process memory instead of a database.
const DriverMemory = "memory"

// Config is the complete server configuration.
type Config struct {
	Port            int           `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORS            CORS          `envPrefix:"CORS_"`
	DB              DB            `envPrefix:"DB_"`
	OIDC            OIDC          `envPrefix:"OIDC_"`
	Log             Log           `envPrefix:"LOG_"`
}

// CORS lists the origins allowed to call the API from a browser.
type CORS struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

// DB selects the record store and how to reach it. A zero Port means the
// driver's default port.
type DB struct {
	Driver   string `env:"DRIVER" envDefault:"postgres"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"0"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"weighttracker"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`

	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"10"`
}

// OIDC names the trusted token issuer and where its signing keys live.
type OIDC struct {
	Issuer      string        `env:"ISSUER" envDefault:"https://keycloak.10-0-2-2.sslip.io/realms/WeightTrackerAPI"`
	JWKSURL     string        `env:"JWKS_URL" envDefault:"http://keycloak:8080/realms/WeightTrackerAPI/protocol/openid-connect/certs"`
	JWKSTimeout time.Duration `env:"JWKS_TIMEOUT" envDefault:"5s"`
}

// Log controls logger verbosity and encoding.
type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// Load reads a .env file from the working directory when present, then the
// process environment. Variables already set win over the file.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, errors.Wrap(err, "load .env")
		}
	}
	return Parse(env.Options{})
}

// Parse builds a Config using opts; tests pass opts.Environment.
func Parse(opts env.Options) (*Config, error) {
	conf, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case string(sqlstore.Postgres), string(sqlstore.MySQL), DriverMemory:
	default:
		return errors.Errorf("DB_DRIVER: unsupported driver %q", c.DB.Driver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("PORT: %d out of range", c.Port)
	}
	if c.DB.Port < 0 || c.DB.Port > 65535 {
		return errors.Errorf("DB_PORT: %d out of range", c.DB.Port)
	}
	if c.OIDC.Issuer == "" || c.OIDC.JWKSURL == "" {
		return errors.New("OIDC_ISSUER and OIDC_JWKS_URL are required")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// DSN renders the connection string for the configured SQL driver.
func (c *Config) DSN() string {
	return sqlstore.DSN(sqlstore.Dialect(c.DB.Driver), sqlstore.Conn{
		Host:     c.DB.Host,
		Port:     c.DB.Port,
		User:     c.DB.User,
		Password: c.DB.Password,
		Database: c.DB.Name,
		SSLMode:  c.DB.SSLMode,
	})
}
