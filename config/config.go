package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"wholesale"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"wholesale123"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"wholesale_db"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// ZillowDelay is the page-settle delay in seconds between navigation and extraction.
	ZillowDelay    float64 `env:"ZILLOW_DELAY" envDefault:"2.0"`
	UserAgent      string  `env:"USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"`
	ChromeBin      string  `env:"CHROME_BIN"`
	MaxConcurrency int     `env:"MAX_CONCURRENCY" envDefault:"4"`

	CSVOutputPath    string `env:"CSV_OUTPUT_PATH" envDefault:"./output/call_sheets.csv"`
	SearchConfigPath string `env:"SEARCH_CONFIG"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	APIAddr          string `env:"API_ADDR" envDefault:":8080"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

// RequestDelay returns ZillowDelay as a duration; negative values become zero.
func (c *Config) RequestDelay() time.Duration {
	if c.ZillowDelay <= 0 {
		return 0
	}
	return time.Duration(c.ZillowDelay * float64(time.Second))
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
