package refresher

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bridgecheck/internal/infrastructure/metrics"
)

// StatusRefresher keeps the bridge status cache warm for a fixed set of tokens.
type StatusRefresher struct {
	target   Target
	tokens   []string
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	interval time.Duration
	timeout  time.Duration
}

// Target refreshes the cached status of one token.
type Target interface {
	RefreshStatus(ctx context.Context, token string) error
}

// Config for StatusRefresher.
type Config struct {
	Target   Target
	Tokens   []string
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
	Interval time.Duration // Polling interval
	Timeout  time.Duration // Per-token refresh timeout
}

// New creates a new StatusRefresher.
func New(cfg Config) *StatusRefresher {
	if cfg.Interval == 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &StatusRefresher{
		target:   cfg.Target,
		tokens:   cfg.Tokens,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger.With().Str("component", "status_refresher").Logger(),
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
	}
}

// Start runs refresh cycles until ctx is cancelled.
func (r *StatusRefresher) Start(ctx context.Context) error {
	if len(r.tokens) == 0 {
		r.logger.Info().Msg("no tokens configured, status refresher disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	r.logger.Info().
		Strs("tokens", r.tokens).
		Dur("interval", r.interval).
		Msg("status refresher started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("status refresher shutting down")
			return ctx.Err()
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

// refreshAll refreshes every token and returns the number of failures.
// One failing token does not stop the others.
func (r *StatusRefresher) refreshAll(ctx context.Context) int {
	if r.metrics != nil {
		r.metrics.RefreshRuns.Inc()
	}

	failed := 0

	for _, token := range r.tokens {
		if ctx.Err() != nil {
			return failed
		}

		if err := r.refresh(ctx, token); err != nil {
			if errors.Is(err, context.Canceled) {
				return failed
			}

			failed++
			if r.metrics != nil {
				r.metrics.RefreshErrors.WithLabelValues(token).Inc()
			}
			r.logger.Error().Err(err).Str("token", token).Msg("failed to refresh bridge status")
			continue
		}

		r.logger.Debug().Str("token", token).Msg("bridge status refreshed")
	}

	return failed
}

func (r *StatusRefresher) refresh(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.target.RefreshStatus(ctx, token)
}
