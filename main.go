package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/purchase-zero/backend/pkg/config"
	"github.com/purchase-zero/backend/pkg/controllers"
	"github.com/purchase-zero/backend/pkg/database"
	"github.com/purchase-zero/backend/pkg/router"
	"github.com/purchase-zero/backend/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	gin.SetMode(cfg.GinMode)
	setupLogging(cfg)

	// Create the data directory
	if cfg.DBDriver == database.DriverSQLite {
		err = os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	s, err := store.Open(store.Config{
		Driver:    cfg.DBDriver,
		DSN:       cfg.DSN(),
		BackupDir: cfg.BackupDir,
	})
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error().Err(err).Msg("could not close the database")
		}
	}()

	if cfg.LegacyDataDir != "" {
		_, err = s.MigrateLegacy(cfg.LegacyDataDir)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	co := controllers.New(s, controllers.Options{DefaultApprover: cfg.DefaultApprover})

	opts := router.Options{
		URL:          cfg.URL(),
		AllowOrigins: cfg.AllowOrigins(),
		EnablePprof:  cfg.EnablePprof,
	}

	r, teardown, err := router.Config(opts)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	router.AttachRoutes(co, r.Group("/"), opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// setupLogging configures the global logger.
//
// The log format defaults to human readable for development
// and JSON for release. LOG_LEVEL overrides the level.
func setupLogging(cfg config.Config) {
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if cfg.LogLevel != "" {
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Warn().Str("LOG_LEVEL", cfg.LogLevel).Msg("unknown log level, ignoring it")
		} else {
			zerolog.SetGlobalLevel(level)
		}
	}

	log.Logger = log.Output(output).With().Timestamp().Logger()
}
