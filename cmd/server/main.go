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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/bridgecheck/internal/adapter/http"
	"github.com/iho/bridgecheck/internal/adapter/http/handler"
	"github.com/iho/bridgecheck/internal/adapter/http/middleware"
	"github.com/iho/bridgecheck/internal/adapter/idgen"
	redisRepo "github.com/iho/bridgecheck/internal/adapter/repository/redis"
	"github.com/iho/bridgecheck/internal/adapter/source/remote"
	"github.com/iho/bridgecheck/internal/infrastructure/config"
	"github.com/iho/bridgecheck/internal/infrastructure/logger"
	"github.com/iho/bridgecheck/internal/infrastructure/metrics"
	"github.com/iho/bridgecheck/internal/infrastructure/redis"
	"github.com/iho/bridgecheck/internal/infrastructure/refresher"
	"github.com/iho/bridgecheck/internal/usecase"
)

const limiterIdleTimeout = time.Hour

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// app is the wired service: the HTTP handler plus its background workers.
type app struct {
	router      http.Handler
	refresher   *refresher.StatusRefresher
	rateLimiter *middleware.RateLimiter
	redisClient *goredis.Client
}

func (a *app) Close() {
	if a.redisClient != nil {
		a.redisClient.Close()
	}
}

// newApp wires every component. Metrics are registered with reg.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	appMetrics := metrics.New(reg)

	var (
		redisClient *goredis.Client
		cache       usecase.Cache
	)
	if cfg.RedisEnabled {
		client, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info().Msg("connected to redis")
		redisClient = client
		cache = redisRepo.NewCache(client)
	} else {
		logger.Warn().Msg("redis disabled, bridge status will not be cached")
	}

	statusClient := remote.NewClient(remote.Config{
		BaseURL:         cfg.StatusAPIURL,
		Timeout:         cfg.StatusAPITimeout,
		MaxRetries:      cfg.StatusAPIMaxRetries,
		BreakerFailures: cfg.StatusBreakerFailures,
		BreakerTimeout:  cfg.StatusBreakerTimeout,
		Metrics:         appMetrics,
		Logger:          logger,
	})

	bridgeUC := usecase.NewBridgeUseCase(usecase.BridgeConfig{
		StatusSource: statusClient,
		PriceSource:  statusClient,
		FeeEstimator: statusClient,
		Cache:        cache,
		IDGenerator:  idgen.New("val"),
		Metrics:      appMetrics,
		Logger:       logger,
		CacheTTL:     cfg.StatusCacheTTL,
	})

	var statusRefresher *refresher.StatusRefresher
	if cache != nil {
		statusRefresher = refresher.New(refresher.Config{
			Target:   bridgeUC,
			Tokens:   cfg.StatusRefreshTokens,
			Metrics:  appMetrics,
			Logger:   logger,
			Interval: cfg.StatusRefreshInterval,
			Timeout:  cfg.StatusAPITimeout,
		})
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BridgeHandler:  handler.NewBridgeHandler(bridgeUC),
		HealthHandler:  handler.NewHealthHandler(redisClient),
		Logger:         logger,
		RateLimiter:    rateLimiter,
		HTTPMetrics:    middleware.NewHTTPMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	return &app{
		router:      router,
		refresher:   statusRefresher,
		rateLimiter: rateLimiter,
		redisClient: redisClient,
	}, nil
}

// run serves HTTP and runs the workers until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if a.refresher != nil {
		g.Go(func() error {
			if err := a.refresher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(limiterIdleTimeout)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := a.rateLimiter.CleanupLimiters(limiterIdleTimeout); n > 0 {
					logger.Debug().Int("removed", n).Msg("pruned idle rate limiters")
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
