package config

import (
	"fmt"
	"time"

	"github.com/shubinsengi1/ubertest/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		ServiceName string `env:"SERVICE_NAME" default:"ubertest"`
		LogLevel    string `env:"LOG_LEVEL" default:"INFO"`

		Server   ServerConfig
		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
		Auth     Auth
	}

	ServerConfig struct {
		Host string `env:"SERVER_HOST" default:"0.0.0.0"`
		Port string `env:"SERVER_PORT" default:"3000"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"ubertest_user"`
		Password string `env:"DATABASE_PASSWORD" default:"ubertest_pass"`
		Database string `env:"DATABASE_DATABASE" default:"ubertest_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	Auth struct {
		AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"15m"`
		RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" default:"168h"`
		JWTSecret       string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// PoolLimits reports pgx pool sizing.
func (c DatabaseConfig) PoolLimits() (maxConns, minConns int32, maxLifetime, maxIdle time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
