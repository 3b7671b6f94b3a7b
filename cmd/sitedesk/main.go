// sitedesk — web dashboard for managing construction project data.
//
// Usage:
//
//	sitedesk [--dev] [--config path] [--addr :8080]
//
// Flags:
//
//	--dev     Start in dev mode: local SQLite file seeded with sample data
//	--config  Path to sitedesk.yaml (default: configs/sitedesk.yaml)
//	--addr    Override server.addr from config
//
// Environment:
//
//	SITEDESK_DB_DSN  Database DSN (fallback when not set in config)
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/sitedesk/internal/config"
	"github.com/ruslano69/sitedesk/internal/dashboard"
	"github.com/ruslano69/sitedesk/internal/storage"
	"github.com/ruslano69/sitedesk/internal/web"

	// DB driver registrations
	_ "github.com/ruslano69/sitedesk/internal/storage/mysql"
	_ "github.com/ruslano69/sitedesk/internal/storage/postgres"
	_ "github.com/ruslano69/sitedesk/internal/storage/sqlite"
)

func main() {
	dev := flag.Bool("dev", false, "dev mode: local SQLite file seeded with sample data")
	configPath := flag.String("config", "configs/sitedesk.yaml", "path to config file")
	addrOverride := flag.String("addr", "", "listen address override (e.g. :8080)")
	flag.Parse()

	// Pretty console log; switch to JSON in production via log.Logger = zerolog.New(os.Stderr)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var cfg *config.Config
	if *dev {
		cfg = config.Default()
		cfg.Database.Driver = "sqlite"
		cfg.Database.DSN = "sitedesk-dev.db"
	} else {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", *configPath).Msg("config load failed")
		}
	}
	if *addrOverride != "" {
		cfg.Server.Addr = *addrOverride
	}

	provider := storage.NewProvider(cfg.Database)
	defer provider.Close(context.Background()) //nolint:errcheck

	if *dev {
		log.Warn().Msg("──────────────────────────────────────────────")
		log.Warn().Msg("  DEV MODE ACTIVE — local SQLite sample data  ")
		log.Warn().Msg("  DO NOT use in production                    ")
		log.Warn().Msg("──────────────────────────────────────────────")

		store, err := provider.Get(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("dev database open failed")
		}
		if err := dashboard.Seed(context.Background(), store); err != nil {
			log.Fatal().Err(err).Msg("dev seed failed")
		}
	}

	router := web.NewRouter(cfg, provider)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("driver", cfg.Database.Driver).
			Bool("dev", *dev).
			Msg("sitedesk started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Msg("stopped")
}
