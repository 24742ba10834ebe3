package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/selic-correction-backend/internal/bcb"
	"github.com/ndewijer/selic-correction-backend/internal/model"
	"github.com/ndewijer/selic-correction-backend/internal/money"
	"github.com/ndewijer/selic-correction-backend/internal/selic"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	CORS    CORSConfig
	Logging LoggingConfig
	Source  SourceConfig
	Selic   SelicConfig
	Money   MoneyConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// SourceConfig holds the SGS rate-source client configuration
type SourceConfig struct {
	BaseURL           string
	Timeout           time.Duration
	MaxAttempts       int
	RetryBackoff      time.Duration
	RequestsPerSecond float64
}

// SelicConfig holds the calculation parameters
type SelicConfig struct {
	SeriesCode         int
	CalendarSeriesCode int
	SeriesFloor        time.Time
	FinalMonthRate     string
}

// MoneyConfig holds the decimal context used for every calculation
type MoneyConfig struct {
	Precision int32
	Rounding  money.RoundingMode
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv builds a Config from the current environment only. Malformed values are
// reported together.
func FromEnv() (*Config, error) {
	p := &parser{}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		CORS: CORSConfig{
			AllowedOrigins: p.list("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Source: SourceConfig{
			BaseURL:           getEnv("BCB_BASE_URL", bcb.DefaultBaseURL),
			Timeout:           p.duration("BCB_TIMEOUT", 30*time.Second),
			MaxAttempts:       p.integer("BCB_MAX_ATTEMPTS", 3),
			RetryBackoff:      p.duration("BCB_RETRY_BACKOFF", time.Second),
			RequestsPerSecond: p.float("BCB_REQUESTS_PER_SECOND", 5),
		},
		Selic: SelicConfig{
			SeriesCode:         p.integer("SELIC_SERIES_CODE", 4390),
			CalendarSeriesCode: p.integer("SELIC_CALENDAR_SERIES_CODE", 11),
			SeriesFloor:        p.date("SELIC_SERIES_FLOOR", "1986-07-01"),
			FinalMonthRate:     getEnv("SELIC_FINAL_MONTH_RATE", selic.DefaultFinalMonthRate),
		},
		Money: MoneyConfig{
			Precision: int32(p.integer("MONEY_PRECISION", int(money.MinPrecision))),
			Rounding:  p.rounding("MONEY_ROUNDING", money.RoundHalfUp),
		},
	}

	if config.Source.MaxAttempts < 1 {
		p.fail("BCB_MAX_ATTEMPTS", "must be at least 1")
	}
	if config.Money.Precision < money.MinPrecision {
		p.fail("MONEY_PRECISION", fmt.Sprintf("must be at least %d", money.MinPrecision))
	}
	if _, err := money.Parse(config.Selic.FinalMonthRate); err != nil {
		p.fail("SELIC_FINAL_MONTH_RATE", err.Error())
	}

	if len(p.errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(p.errs, "; "))
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// MoneyContext returns the decimal context described by c.
func (c MoneyConfig) MoneyContext() (*money.Context, error) {
	return money.NewContext(c.Precision, c.Rounding)
}

// Options returns the SGS client options described by c.
func (c SourceConfig) Options() bcb.Options {
	return bcb.Options{
		BaseURL:           c.BaseURL,
		Timeout:           c.Timeout,
		MaxAttempts:       c.MaxAttempts,
		RetryBackoff:      c.RetryBackoff,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parser reads typed environment variables and accumulates the failures.
type parser struct {
	errs []string
}

func (p *parser) fail(key, msg string) {
	p.errs = append(p.errs, fmt.Sprintf("%s %s", key, msg))
}

func (p *parser) integer(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.fail(key, fmt.Sprintf("must be an integer, got %q", raw))
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		p.fail(key, fmt.Sprintf("must be a number, got %q", raw))
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		p.fail(key, fmt.Sprintf("must be a duration such as 30s, got %q", raw))
		return def
	}
	return v
}

func (p *parser) date(key, def string) time.Time {
	raw := getEnv(key, def)
	v, err := time.Parse(model.ISODateLayout, strings.TrimSpace(raw))
	if err != nil {
		p.fail(key, fmt.Sprintf("must be a YYYY-MM-DD date, got %q", raw))
		return time.Time{}
	}
	return v
}

func (p *parser) rounding(key string, def money.RoundingMode) money.RoundingMode {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := money.ParseRoundingMode(raw)
	if err != nil {
		p.fail(key, err.Error())
		return def
	}
	return v
}

func (p *parser) list(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
