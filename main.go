package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/bitcoin-fees-service/internal/api"
	"github.com/dalfonso89/bitcoin-fees-service/internal/config"
	"github.com/dalfonso89/bitcoin-fees-service/internal/logger"
	"github.com/dalfonso89/bitcoin-fees-service/internal/platform"
	"github.com/dalfonso89/bitcoin-fees-service/internal/ratelimit"
	"github.com/dalfonso89/bitcoin-fees-service/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// The service owns the upstream client and closes it on shutdown
	feesClient := cfg.NewFeesClient()
	defer feesClient.Close()

	feesService := service.NewFeesService(feesClient, logger)
	rateLimiter := ratelimit.NewLimiter(cfg, logger)
	defer rateLimiter.Stop()

	gin.SetMode(gin.ReleaseMode)
	handlers := api.NewHandlers(api.HandlerConfig{
		Logger:      logger,
		FeesService: feesService,
		RateLimiter: rateLimiter,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FeesAPITimeout() + 15*time.Second,
	}

	go func() {
		logger.WithField("upstream", feesClient.BaseURL()).Info("Starting bitcoin fees service on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	shutdownCtx, stop := platform.NewShutdownContext(context.Background())
	defer stop()
	<-shutdownCtx.Done()

	logger.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
		return
	}

	logger.Info("Server exited")
}
