package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/todo-app/internal/config"
	"github.com/adanyl0v/todo-app/internal/database"
)

func MustConnectPostgres(ctx context.Context, logger zerolog.Logger, cfg *config.Config) *database.DB {
	db, err := database.Connect(ctx, logger, cfg.Env, cfg.Postgres.URI.Reveal(), cfg.Postgres)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}
	logger.Info().
		Int32("max_conns", cfg.Postgres.MaxConns).
		Dur("max_conn_lifetime", cfg.Postgres.MaxConnLifetime).
		Msg("connected to postgres")
	return db
}

func MustCreateTables(logger zerolog.Logger, db *database.DB) {
	logger.Info().Msg("creating tables")
	err := database.CreateTables(db.ORM)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to create tables")
		panic(err)
	}
	logger.Info().Msg("tables created")
}

func DisconnectPostgres(logger zerolog.Logger, db *database.DB) {
	err := db.Close()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to close orm connection")
	}
	logger.Info().Msg("disconnected from postgres")
}
