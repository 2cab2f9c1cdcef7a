package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dfryer1193/bitacora/blog/application"
	"github.com/dfryer1193/bitacora/blog/domain"
	"github.com/dfryer1193/bitacora/blog/persistence"
	"github.com/dfryer1193/bitacora/internal/config"
	"github.com/dfryer1193/bitacora/internal/metrics"
	"github.com/dfryer1193/bitacora/internal/middleware"
	"github.com/dfryer1193/bitacora/internal/rest"
	"github.com/dfryer1193/bitacora/internal/web"
	"github.com/dfryer1193/bitacora/shared/db"
	"github.com/dfryer1193/bitacora/shared/db/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg)

	slots, closer, err := openSlotStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("Failed to open slot store")
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close slot store")
		}
	}()

	collector := metrics.NewCollector()
	bitacora := application.New(
		context.Background(),
		persistence.NewPostStore(slots, cfg.SlotKey),
		application.WithObserver(collector),
	)
	defer func() {
		if err := bitacora.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to gracefully close bitacora")
		}
	}()

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	renderer := application.NewMarkdownRenderer()
	rest.NewApi(router, bitacora, renderer)
	if _, err := web.NewPage(router, bitacora, renderer, time.Local); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse page template")
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("store", cfg.Store).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
		return
	}

	log.Info().Msg("Server stopped")
}

func setupLogger(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogFormat == config.LogFormatConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// openSlotStore connects the backend named by BITACORA_STORE.
// The closer releases the underlying connection.
func openSlotStore(cfg *config.Config) (domain.SlotStore, io.Closer, error) {
	if cfg.Store == config.StoreRedis {
		slots, err := persistence.ConnectRedis(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return slots, slots, nil
	}

	var database db.Database = sqlite.NewSQLiteDB(cfg.SQLite)
	if err := database.Connect(); err != nil {
		return nil, nil, err
	}
	log.Info().Str("path", cfg.SQLite.Path).Msg("Opened sqlite database")
	return persistence.NewSlotRepository(database.DB()), database, nil
}
