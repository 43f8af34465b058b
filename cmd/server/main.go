package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/quakeboard/api/internal/business/quakes"
	"github.com/quakeboard/api/internal/business/theme"
	"github.com/quakeboard/api/internal/platform/config"
	apirouter "github.com/quakeboard/api/internal/platform/http"
	"github.com/quakeboard/api/internal/platform/logger"
	"github.com/quakeboard/api/internal/platform/usgs"
	"github.com/quakeboard/api/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}

	lg := logger.New("quakeboard-api", cfg.Level())
	cfg.LogSummary(lg)

	gin.SetMode(cfg.GinMode)

	prefs, closePrefs, err := repository.OpenPreferenceStore(ctx, cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("preferences init")
	}
	defer func() {
		if err := closePrefs(); err != nil {
			lg.Warn().Err(err).Msg("close preferences")
		}
	}()

	client := usgs.New(cfg.USGSAPIURL, nil, lg)
	store := quakes.NewFeedStore(client, lg.With().Str("component", "feed").Logger())
	sessions := quakes.NewSessions(store, cfg.PageSize, cfg.SessionTTL, lg.With().Str("component", "sessions").Logger())
	themes := theme.NewService(prefs, lg.With().Str("component", "theme").Logger())

	if cfg.FetchOnStart {
		store.RefreshAsync(ctx)
	}
	go sessions.RunSweeper(ctx, time.Minute)

	router := apirouter.NewRouter(store, sessions, themes, lg, cfg.Origins())

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("server error")
		}
	}()
	lg.Info().Str("addr", cfg.Addr()).Msg("server listening")

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("server shutdown")
	}
	lg.Info().Msg("server exited")
}
