package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrDatabaseURIRequired     = errors.New("DATABASE_URI is required")
	ErrTestDatabaseURIRequired = errors.New("TEST_DATABASE_URI is required")
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

// Read returns the configuration used to serve traffic.
func (r EnvReader) Read() (*Config, error) {
	cfg, err := r.read()
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.URI == "" {
		return nil, ErrDatabaseURIRequired
	}
	return cfg, nil
}

// ReadTest returns the configuration for tests that run against a
// real database. Only TEST_DATABASE_URI has to be set.
func (r EnvReader) ReadTest() (*Config, error) {
	cfg, err := r.read()
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.TestURI == "" {
		return nil, ErrTestDatabaseURIRequired
	}
	return cfg, nil
}

func (EnvReader) read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return nil, fmt.Errorf("unknown env: %s", cfg.Env)
	}

	return cfg, nil
}
