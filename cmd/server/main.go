package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/selic-correction-backend/internal/api"
	"github.com/ndewijer/selic-correction-backend/internal/bcb"
	"github.com/ndewijer/selic-correction-backend/internal/config"
	"github.com/ndewijer/selic-correction-backend/internal/logging"
	"github.com/ndewijer/selic-correction-backend/internal/selic"
	"github.com/ndewijer/selic-correction-backend/internal/service"
	"github.com/ndewijer/selic-correction-backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // nothing useful to do if the final flush fails
	zap.ReplaceGlobals(logger)

	mc, err := cfg.Money.MoneyContext()
	if err != nil {
		logger.Fatal("invalid money context", zap.Error(err))
	}

	// Create the rate source and calculator
	client := bcb.NewSeriesClient(cfg.Source.Options(), logger)
	calculator, err := selic.NewCalculator(mc, cfg.Selic.FinalMonthRate, logger)
	if err != nil {
		logger.Fatal("invalid calculator settings", zap.Error(err))
	}

	// Create services
	rateService := service.NewRateService(client, cfg.Selic.SeriesCode, cfg.Selic.CalendarSeriesCode, logger)
	correctionService := service.NewCorrectionService(rateService, calculator, logger)
	systemService := service.NewSystemService(rateService, calculator)

	// Create router
	router := api.NewRouter(systemService, correctionService, rateService, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.Source.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version.Version),
			zap.Int("seriesCode", cfg.Selic.SeriesCode),
			zap.String("baseUrl", cfg.Source.BaseURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server exited")
}
