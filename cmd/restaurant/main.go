package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"innkeep/internal/api"
	"innkeep/internal/config"
	"innkeep/internal/logging"
	"innkeep/internal/metrics"
	"innkeep/internal/models"
	"innkeep/internal/restaurant"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	store := restaurant.NewStore()
	if err := seedMenu(cfg, store, &logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := api.NewRateLimiter(cfg.RateLimit)
	server := api.NewRestaurantServer(cfg.Restaurant, store, limiter, &logger)

	startMetrics(ctx, cfg, &logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("restaurant server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.ForService(baseLogger, "restaurant")

	return cfg, logger, closer, nil
}

// seedMenu загружает стартовое меню из YAML файла, если он настроен
func seedMenu(cfg *config.Config, store *restaurant.Store, logger *zerolog.Logger) error {
	menuPath := os.Getenv("MENU_PATH")
	if menuPath == "" {
		menuPath = cfg.Restaurant.MenuPath
	}
	if menuPath == "" {
		return nil
	}

	data, err := os.ReadFile(menuPath)
	if err != nil {
		logger.Error().Err(err).Str("menu_path", menuPath).Msg("read menu")
		return err
	}

	var menuConfig struct {
		Items []models.FoodItem `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &menuConfig); err != nil {
		logger.Error().Err(err).Str("menu_path", menuPath).Msg("parse menu")
		return err
	}

	store.SeedMenu(menuConfig.Items)
	logger.Info().Int("items", len(menuConfig.Items)).Msg("menu seeded")
	return nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	// Смещение, чтобы не пересекаться с hotel сервисом на одном хосте
	go startMetricsServer(ctx, port+1, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
