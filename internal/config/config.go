package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	// Environment variables
	_ "github.com/joho/godotenv/autoload"
)

// Data sources the launch table can be loaded from.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Defaults follow the original dashboard: it listened on 127.0.0.1:8050 and
// read spacex_launch_dash.csv from the working directory.
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8050
	DefaultDataFile       = "spacex_launch_dash.csv"
	DefaultMigrationsDir  = "migrations"
	DefaultRateLimitRPS   = 10
	DefaultRateLimitBurst = 20
)

type Config struct {
	Host string
	Port int

	DataSource string
	DataFile   string

	RateLimitRPS   float64
	RateLimitBurst int

	DB DBConfig
}

type DBConfig struct {
	Host          string
	Port          string
	Database      string
	Username      string
	Password      string
	Schema        string
	MigrationsDir string
}

// URL returns the postgres connection string for the configured database.
func (c DBConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=disable",
	}
	if c.Schema != "" {
		u.RawQuery += "&search_path=" + url.QueryEscape(c.Schema)
	}
	return u.String()
}

// Addr is the host:port the HTTP server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (Config, error) {
	cfg := Config{
		Host:       getenv("HOST", DefaultHost),
		DataSource: getenv("DATA_SOURCE", SourceCSV),
		DataFile:   getenv("DATA_FILE", DefaultDataFile),
		DB: DBConfig{
			Host:          os.Getenv("DB_HOST"),
			Port:          os.Getenv("DB_PORT"),
			Database:      os.Getenv("DB_DATABASE"),
			Username:      os.Getenv("DB_USERNAME"),
			Password:      os.Getenv("DB_PASSWORD"),
			Schema:        os.Getenv("DB_SCHEMA"),
			MigrationsDir: getenv("MIGRATIONS_DIR", DefaultMigrationsDir),
		},
	}

	var err error
	if cfg.Port, err = intEnv("PORT", DefaultPort); err != nil {
		return Config{}, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT: %d out of range", cfg.Port)
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", DefaultRateLimitBurst); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = floatEnv("RATE_LIMIT_RPS", DefaultRateLimitRPS); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	switch cfg.DataSource {
	case SourceCSV:
		if cfg.DataFile == "" {
			return Config{}, fmt.Errorf("DATA_FILE must be set when DATA_SOURCE=%s", SourceCSV)
		}
	case SourcePostgres:
		if cfg.DB.Host == "" || cfg.DB.Port == "" || cfg.DB.Database == "" {
			return Config{}, fmt.Errorf("DB_HOST, DB_PORT and DB_DATABASE must be set when DATA_SOURCE=%s", SourcePostgres)
		}
	default:
		return Config{}, fmt.Errorf("DATA_SOURCE: unknown source %q", cfg.DataSource)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
