package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	ServerPort      string        `env:"SERVER_PORT" env-default:"8080"`
	StorageDriver   string        `env:"STORAGE_DRIVER" env-default:"mongo"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	GinMode         string        `env:"GIN_MODE" env-default:"release"`
	Mongo           MongoConfig
	Postgres        PostgresConfig
	Log             LogConfig
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB_NAME" env-default:"taskboard"`
	Transactions bool   `env:"MONGO_TRANSACTIONS" env-default:"false"`
}

type PostgresConfig struct {
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     int    `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"taskboard"`
	Password string `env:"DB_PASSWORD" env-default:"taskboard"`
	Name     string `env:"DB_NAME" env-default:"taskboard"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
	File  string `env:"LOG_FILE"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, using system environment variables")
	}

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverMongo, DriverPostgres:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverMongo, DriverPostgres, c.StorageDriver)
	}
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT is empty")
	}
	return nil
}

// DSN is the gorm connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Name, p.SSLMode,
	)
}

// URL is the postgres:// form golang-migrate expects.
func (p PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     p.Name,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

// Usage describes every variable Load reads.
func Usage() string {
	desc, err := cleanenv.GetDescription(new(Config), nil)
	if err != nil {
		return err.Error()
	}
	return desc
}
