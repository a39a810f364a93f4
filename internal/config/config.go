package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env      string `env:"ENV" env-default:"prod"`
	HTTP     HTTPConfig
	Postgres PostgresConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8000"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	// URI is required by Read, TestURI by ReadTest.
	URI     Secret `env:"DATABASE_URI"`
	TestURI Secret `env:"TEST_DATABASE_URI"`

	SSLMode         string        `env:"POSTGRES_SSL_MODE" env-default:"require"`
	MaxConns        int32         `env:"POSTGRES_MAX_CONNS" env-default:"10"`
	MaxConnLifetime time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" env-default:"300s"`
	ConnectTimeout  time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout     time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

// Secret holds a value that must not end up in logs. Formatting it
// with %s or %v prints a placeholder; use Reveal to get the value.
type Secret string

const redacted = "**********"

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s Secret) Reveal() string {
	return string(s)
}
