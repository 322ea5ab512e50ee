package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"go.temporal.io/sdk/client"

	platformobservability "github.com/Apurer/go-gin-user-directory/internal/platform/observability"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`

	// Storage falls back to memory when POSTGRES_DSN is empty; caching is off when REDIS_URL is empty.
	PostgresDSN  string        `env:"POSTGRES_DSN"`
	RedisURL     string        `env:"REDIS_URL"`
	ListCacheTTL time.Duration `env:"LIST_CACHE_TTL" envDefault:"30s"`

	TemporalAddress   string `env:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `env:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool   `env:"TEMPORAL_DISABLED"`

	// Comma-separated list of origins allowed to call the API from a browser.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	LogLevel         string  `env:"LOG_LEVEL"`
	TraceExporter    string  `env:"OTEL_TRACES_EXPORTER"`
	OTLPEndpoint     string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure     bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	TraceSampleRatio float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.PostgresDSN = strings.TrimSpace(c.PostgresDSN)
	c.RedisURL = strings.TrimSpace(c.RedisURL)
	if strings.TrimSpace(c.TemporalAddress) == "" {
		c.TemporalAddress = client.DefaultHostPort
	}
	if strings.TrimSpace(c.TemporalNamespace) == "" {
		c.TemporalNamespace = client.DefaultNamespace
	}
	origins := c.CORSAllowedOrigins[:0]
	for _, origin := range c.CORSAllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORSAllowedOrigins = origins
}

// Validate checks the constraints env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port))
	}
	for name, d := range map[string]time.Duration{
		"READ_TIMEOUT":     c.ReadTimeout,
		"WRITE_TIMEOUT":    c.WriteTimeout,
		"SHUTDOWN_TIMEOUT": c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be within [0,1], got %v", c.TraceSampleRatio))
	}
	if c.ListCacheTTL < 0 {
		errs = append(errs, errors.New("LIST_CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Observability maps the OTEL_* and LOG_LEVEL settings onto Init options.
func (c Config) Observability(serviceName string) platformobservability.Options {
	return platformobservability.Options{
		ServiceName:   serviceName,
		Environment:   c.Environment,
		LogLevel:      c.LogLevel,
		TraceExporter: c.TraceExporter,
		OTLPEndpoint:  c.OTLPEndpoint,
		OTLPInsecure:  c.OTLPInsecure,
		SampleRatio:   c.TraceSampleRatio,
	}
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
