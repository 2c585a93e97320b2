// apps/go-server/main.go
//
// Entry point for the flashcards Go server.
// Responsibilities:
//   - Load .env and typed configuration, configure zerolog.
//   - Open SQLite and apply embedded migrations.
//   - Serve HTTP and sweep idle study sessions until SIGINT/SIGTERM,
//     then shut down gracefully.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/flashcards/apps/go-server/internal/auth"
	"github.com/robalobadob/flashcards/apps/go-server/internal/config"
	"github.com/robalobadob/flashcards/apps/go-server/internal/database"
	"github.com/robalobadob/flashcards/apps/go-server/internal/httpserver"
	"github.com/robalobadob/flashcards/apps/go-server/internal/phrases"
	"github.com/robalobadob/flashcards/apps/go-server/internal/sets"
)

// sweepInterval is how often idle sessions are checked for expiry.
const sweepInterval = time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg.Log)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging(c config.LogConfig) {
	if lvl, err := zerolog.ParseLevel(c.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	list, err := phrases.Load()
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	srv := httpserver.New(httpserver.Deps{
		Config:  cfg,
		Users:   auth.NewUsers(db, 0),
		Tokens:  auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), clock),
		Sets:    sets.NewRepository(db, clock),
		Phrases: list,
		Clock:   clock,
	})
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Str("db", cfg.DB.Path).Msg("starting go-server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		t := clock.NewTicker(sweepInterval)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-t.Chan():
				srv.Sweep(clock.Now())
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
