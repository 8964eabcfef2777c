package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/grantsql/internal/database"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"grantsql"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"pgx"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"donations"`
		Path     string `envconfig:"DB_PATH" default:"donations.db"` // sqlite only
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Rates struct {
		BaseURL   string        `envconfig:"RATES_BASE_URL" default:"https://api.exchangeratesapi.io"`
		AccessKey string        `envconfig:"RATES_ACCESS_KEY"`
		Base      string        `envconfig:"RATES_BASE" default:"USD"`
		Basis     string        `envconfig:"RATES_BASIS" default:"Exchangeratesapi.io"`
		Timeout   time.Duration `envconfig:"RATES_TIMEOUT" default:"10s"`
		CacheSize int           `envconfig:"RATES_CACHE_SIZE" default:"512"`
	}

	Profile struct {
		Path string `envconfig:"PROFILE_PATH"`
	}
}

// Driver returns the configured database driver.
func (c *Config) Driver() database.Driver {
	return database.Driver(c.DB.Driver)
}

// ConnectionString returns the DSN for the configured driver.
func (c *Config) ConnectionString() string {
	if c.Driver() == database.DriverSQLite {
		return c.DB.Path
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
