package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/todo-app/internal/config"
	"github.com/adanyl0v/todo-app/internal/database"
	v1 "github.com/adanyl0v/todo-app/internal/delivery/http/v1"
)

func NewRouter(logger zerolog.Logger, sessions v1.SessionProvider) *gin.Engine {
	router := gin.New()
	// Lets handlers pass *gin.Context to queries and still be
	// cancelled when the client goes away.
	router.ContextWithFallback = true

	handler := v1.New(logger, sessions)
	router.Use(handler.HandleRequestLogger)
	router.Use(gin.Recovery())
	v1.RegisterRoutes(router, handler)
	return router
}

func MustListenAndServeHTTP(logger zerolog.Logger, cfg *config.Config, db *database.DB) {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: NewRouter(logger, database.NewSessions(db.ORM)),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	// The listener error is raised here so that the caller's deferred
	// teardown runs and main can turn it into an exit code.
	select {
	case err := <-serveErr:
		logger.Error().
			Err(err).
			Msg("failed to listen and serve http")
		panic(err)
	case <-quit:
	}

	logger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	logger.Info().Msg("shut down http server")
}
