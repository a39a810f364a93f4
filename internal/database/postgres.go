package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/adanyl0v/todo-app/internal/config"
)

// DB owns the process-wide connection pool and the ORM handle built
// on top of it. Close releases both.
type DB struct {
	Pool *pgxpool.Pool
	ORM  *gorm.DB
}

// ConnString returns uri with sslmode forced to sslMode. Both URL and
// keyword/value strings are accepted. The rest of the string is passed
// through untouched so that a malformed one is reported by the driver
// when it is used.
func ConnString(uri, sslMode string) string {
	if sslMode == "" {
		return uri
	}

	// Keyword/value form: the last occurrence of a key wins.
	if !strings.Contains(uri, "://") {
		return strings.TrimSpace(uri + " sslmode=" + sslMode)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	// Driver-qualified schemes such as "postgresql+psycopg" are accepted.
	if scheme, _, ok := strings.Cut(u.Scheme, "+"); ok {
		u.Scheme = scheme
	}

	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func NewPool(ctx context.Context, uri string, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(ConnString(uri, cfg.SSLMode))
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
		poolCfg.MaxConnIdleTime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(pingCtx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return pool, nil
}

func Connect(ctx context.Context, logger zerolog.Logger, env, uri string, cfg config.PostgresConfig) (*DB, error) {
	pool, err := NewPool(ctx, uri, cfg)
	if err != nil {
		return nil, err
	}

	orm, err := gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDBFromPool(pool),
	}), &gorm.Config{
		Logger: NewGormLogger(logger, env),
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to open orm: %w", err)
	}

	return &DB{Pool: pool, ORM: orm}, nil
}

func (db *DB) Close() error {
	var err error
	if db.ORM != nil {
		sqlDB, dbErr := db.ORM.DB()
		if dbErr == nil {
			err = sqlDB.Close()
		}
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
	return err
}
