// Package config loads the configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/purchase-zero/backend/pkg/database"
	"github.com/rs/zerolog/log"
)

// Config is the configuration of the backend.
type Config struct {
	APIURL    string `envconfig:"API_URL" required:"true"`
	Port      int    `envconfig:"PORT" default:"8080"`
	GinMode   string `envconfig:"GIN_MODE" default:"release"`
	LogFormat string `envconfig:"LOG_FORMAT"` // "human" for console output, JSON otherwise
	LogLevel  string `envconfig:"LOG_LEVEL"`

	DBDriver  string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBPath    string `envconfig:"DB_PATH" default:"data/purchases.db"`
	DBDSN     string `envconfig:"DB_DSN"` // Only used for postgres
	BackupDir string `envconfig:"BACKUP_DIR" default:"backups"`

	CORSAllowOrigins string `envconfig:"CORS_ALLOW_ORIGINS"` // Space separated
	EnablePprof      bool   `envconfig:"ENABLE_PPROF" default:"false"`

	LegacyDataDir   string `envconfig:"LEGACY_DATA_DIR"`
	DefaultApprover string `envconfig:"DEFAULT_APPROVER" default:"Manager"`
}

// Load reads an optional .env file and processes the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute URL, got '%s'", c.APIURL)
	}

	switch c.DBDriver {
	case database.DriverSQLite:
	case database.DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN must be set for the %s driver", database.DriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER '%s', use %s or %s", c.DBDriver, database.DriverSQLite, database.DriverPostgres)
	}

	return nil
}

// URL returns the parsed API_URL.
func (c Config) URL() *url.URL {
	u, _ := url.Parse(c.APIURL)
	return u
}

// DSN returns the data source for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == database.DriverPostgres {
		return c.DBDSN
	}
	return c.DBPath
}

// AllowOrigins returns the origins allowed for CORS.
func (c Config) AllowOrigins() []string {
	return strings.Fields(c.CORSAllowOrigins)
}
