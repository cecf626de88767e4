package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shopsoft/storefront/internal/config"
	"github.com/shopsoft/storefront/internal/events"
	"github.com/shopsoft/storefront/internal/handlers"
	"github.com/shopsoft/storefront/internal/httpserver"
	"github.com/shopsoft/storefront/internal/logging"
	"github.com/shopsoft/storefront/internal/search"
	"github.com/shopsoft/storefront/internal/session"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logger := logging.New(configuration.LogLevel)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		logger.Error("db init error", "err", err)
		os.Exit(1)
	}

	sessions := session.NewStore(configuration.SessionTTL)

	var prod *events.Producer
	if configuration.KafkaAddress != "" {
		prod = events.NewProducer(configuration.KafkaAddress)
	} else {
		logger.Info("KAFKA_ADDRESS not set, event publishing disabled")
	}

	searchClient, err := search.NewClient(configuration)
	if err != nil {
		logger.Error("elasticsearch init error", "err", err)
		os.Exit(1)
	}
	if !searchClient.Enabled() {
		logger.Info("ES_URL not set, search disabled")
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		DB:        db,
		Sessions:  sessions,
		Auth:      &handlers.AuthHandler{DB: db, Sessions: sessions, Producer: prod},
		Catalog:   &handlers.CatalogHandler{DB: db},
		Inventory: &handlers.InventoryHandler{DB: db, Producer: prod, Search: searchClient},
		Cart:      &handlers.CartHandler{DB: db, Sessions: sessions, Producer: prod},
		Likes:     &handlers.LikeHandler{DB: db, Producer: prod},
		Messages:  &handlers.MessageHandler{DB: db, Producer: prod},
		Customers: &handlers.CustomerHandler{DB: db},
		Search:    &handlers.SearchHandler{Search: searchClient},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
		}
	}()
	logger.Info("listening", "addr", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}

	sessions.Close()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "err", err)
		}
	} else {
		logger.Error("db() error", "err", err)
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "err", err)
	}

	logger.Info("shutdown complete")
}
