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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-shqip/internal/config"
	"github.com/robalobadob/wordle-shqip/internal/httpserver"
	"github.com/robalobadob/wordle-shqip/internal/store"
	"github.com/robalobadob/wordle-shqip/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.DatabaseType).Msg("failed to open store")
	}
	defer closeStore()

	src := words.EmbeddedSource()
	if cfg.DictionaryFile != "" {
		src = words.FileSource(cfg.DictionaryFile)
	}
	dict := words.New(src)
	dict.EnsureLoaded()

	srv := httpserver.New(cfg, st, dict).HTTPServer(cfg.Addr())
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("store", cfg.DatabaseType).Msg("starting wordle-shqip")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// openStore selects the storage backend named by DATABASE_TYPE.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseType == "memory" {
		return store.NewMemoryStore(), func() {}, nil
	}
	dialect, ok := store.DialectFor(cfg.DatabaseType)
	if !ok {
		return nil, nil, errors.New("unknown database type " + cfg.DatabaseType)
	}
	db, err := store.Open(ctx, dialect, store.DialectConfig{Path: cfg.DatabasePath, URL: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}, nil
}
