package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/lusohub/directory-api/internal/config"
	"github.com/lusohub/directory-api/internal/database"
	"github.com/lusohub/directory-api/internal/entity"
	"github.com/lusohub/directory-api/internal/handler"
	middlewarepkg "github.com/lusohub/directory-api/internal/middleware"
	"github.com/lusohub/directory-api/internal/querycache"
	"github.com/lusohub/directory-api/internal/repository"
	"github.com/lusohub/directory-api/internal/router"
	"github.com/lusohub/directory-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	searchCache, err := querycache.New[service.SearchResult](querycache.Config{
		TTL:        cfg.SearchCache.TTL,
		MaxEntries: cfg.SearchCache.MaxEntries,
	})
	if err != nil {
		log.Fatalf("failed to build search cache: %v", err)
	}
	suggestCache, err := querycache.New[[]entity.AreaSuggestion](querycache.Config{
		TTL:        cfg.SuggestCache.TTL,
		MaxEntries: cfg.SuggestCache.MaxEntries,
	})
	if err != nil {
		log.Fatalf("failed to build suggest cache: %v", err)
	}

	invalidator := querycache.NewInvalidator()
	invalidator.Register("businesses", searchCache)
	invalidator.Register("areas", suggestCache)

	listener := database.NewChangeListener(pool, cfg.ChangeChannel)

	listenCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()

	go func() {
		if err := listener.Run(listenCtx); err != nil {
			log.Printf("change listener stopped: %v", err)
		}
	}()
	go invalidator.Run(listenCtx, listener.Changes())

	businessesRepo := repository.NewPGXBusinessesRepository(pool)
	areasRepo := repository.NewPGXAreasRepository(pool)

	directoryService := service.NewDirectoryService(businessesRepo, searchCache, cfg.QueryTimeout, cfg.SlowQueryThreshold)
	suggestService := service.NewSuggestService(areasRepo, suggestCache, cfg.QueryTimeout)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{
		Businesses: handler.NewBusinessesHandler(directoryService),
		Areas:      handler.NewAreasHandler(suggestService),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	stopListener()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
