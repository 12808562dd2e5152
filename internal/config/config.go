package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ProtocolHTTP is the only listener protocol the service speaks.
const ProtocolHTTP = "http"

// Config aggregates all runtime settings.
type Config struct {
	App     AppConfig     `envPrefix:"HOME_"`
	HTTP    HTTPConfig    `envPrefix:"HOME_HTTP_"`
	Metrics MetricsConfig `envPrefix:"HOME_METRICS_"`
}

type AppConfig struct {
	Environment string `env:"ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"home-service"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTPConfig struct {
	Host              string        `env:"HOST" envDefault:"localhost"`
	Port              int           `env:"PORT" envDefault:"1447"`
	Protocol          string        `env:"PROTOCOL" envDefault:"http"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"25s"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

type MetricsConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
}

// Address returns the host:port pair the listener binds to.
func (c HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Default returns the configuration produced by an empty environment.
func Default() *Config {
	cfg, err := parse(env.Options{Environment: map[string]string{}})
	if err != nil {
		// envDefault tags are static; a failure here is a programming error.
		panic(err)
	}
	return cfg
}

// Load parses environment variables into Config and performs validation.
func Load() (*Config, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the listener settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Host) == "" {
		return fmt.Errorf("HOME_HTTP_HOST is required")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HOME_HTTP_PORT %d out of range", c.HTTP.Port)
	}
	if !strings.EqualFold(c.HTTP.Protocol, ProtocolHTTP) {
		return fmt.Errorf("HOME_HTTP_PROTOCOL %q unsupported (only %q)", c.HTTP.Protocol, ProtocolHTTP)
	}
	c.HTTP.Protocol = ProtocolHTTP
	return nil
}
