package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/bridgecheck/internal/domain"
	"github.com/iho/bridgecheck/internal/infrastructure/metrics"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// BridgeUseCase validates bridge transfers against live limits.
type BridgeUseCase struct {
	statusSource StatusSource
	priceSource  PriceSource
	feeEstimator FeeEstimator
	cache        Cache
	idGen        IDGenerator
	clock        Clock
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	cacheTTL     time.Duration
	timeout      time.Duration
}

// BridgeConfig holds the dependencies of BridgeUseCase.
// Cache, FeeEstimator, Clock and Metrics are optional.
type BridgeConfig struct {
	StatusSource StatusSource
	PriceSource  PriceSource
	FeeEstimator FeeEstimator
	Cache        Cache
	IDGenerator  IDGenerator
	Clock        Clock
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
	CacheTTL     time.Duration
	Timeout      time.Duration
}

// NewBridgeUseCase creates a new BridgeUseCase.
func NewBridgeUseCase(cfg BridgeConfig) *BridgeUseCase {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultStatusCacheTTL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}

	return &BridgeUseCase{
		statusSource: cfg.StatusSource,
		priceSource:  cfg.PriceSource,
		feeEstimator: cfg.FeeEstimator,
		cache:        cfg.Cache,
		idGen:        cfg.IDGenerator,
		clock:        cfg.Clock,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		cacheTTL:     cfg.CacheTTL,
		timeout:      cfg.Timeout,
	}
}

// ValidateTransferInput represents input for validating a bridge transfer.
// DestChainID of zero skips the fee estimate.
type ValidateTransferInput struct {
	Token                 string
	Amount                string
	WalletBalanceMantissa string
	TokenDecimals         int32
	DestChainID           int64
}

// ValidateTransfer checks a proposed transfer against the wallet balance and the
// bridge limits. Violations are part of the report, not errors.
func (uc *BridgeUseCase) ValidateTransfer(ctx context.Context, input ValidateTransferInput) (*domain.ValidationReport, error) {
	start := time.Now()

	token, err := domain.NormalizeToken(input.Token)
	if err != nil {
		return nil, err
	}

	if input.DestChainID != 0 {
		if err := domain.ValidateChainID(input.DestChainID); err != nil {
			return nil, err
		}
	}

	amount, err := domain.ParseTokenAmount(input.Amount, input.TokenDecimals)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	balance, err := domain.FromMantissa(input.WalletBalanceMantissa, input.TokenDecimals)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	status, price, err := uc.loadMarket(ctx, token)
	if err != nil {
		return nil, err
	}

	tc := domain.TransferContext{
		WalletBalance: balance,
		TokenPriceUSD: price,
		Limits:        status.Limits,
	}

	report := domain.NewValidationReport(uc.idGen.Generate(), token, amount, tc, uc.clock.Now())
	report.Fee = uc.estimateFee(ctx, token, input.DestChainID, amount)

	uc.record(report, start)

	uc.logger.Debug().
		Str("report_id", report.ID).
		Str("token", token).
		Str("amount", amount.String()).
		Str("amount_usd", report.AmountUSD.String()).
		Int("violations", len(report.Violations)).
		Msg("transfer validated")

	return report, nil
}

// GetStatus returns the current bridge capacity for token.
func (uc *BridgeUseCase) GetStatus(ctx context.Context, token string) (*domain.StatusReport, error) {
	token, err := domain.NormalizeToken(token)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	status, price, err := uc.loadMarket(ctx, token)
	if err != nil {
		return nil, err
	}

	return domain.NewStatusReport(status, price), nil
}

// RefreshStatus fetches a fresh snapshot for token and stores it in the cache.
func (uc *BridgeUseCase) RefreshStatus(ctx context.Context, token string) error {
	token, err := domain.NormalizeToken(token)
	if err != nil {
		return err
	}

	status, err := uc.fetchStatus(ctx, token)
	if err != nil {
		return err
	}

	return uc.storeStatus(ctx, status)
}

// loadMarket fetches the limits and the price concurrently.
func (uc *BridgeUseCase) loadMarket(ctx context.Context, token string) (*domain.BridgeStatus, decimal.Decimal, error) {
	var (
		status *domain.BridgeStatus
		price  decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := uc.loadStatus(gctx, token)
		if err != nil {
			return err
		}
		status = s
		return nil
	})

	g.Go(func() error {
		p, err := uc.priceSource.FetchPrice(gctx, token)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrPriceUnavailable, err)
		}
		if err := domain.ValidatePrice(p); err != nil {
			return err
		}
		price = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, decimal.Zero, err
	}

	return status, price, nil
}

func (uc *BridgeUseCase) loadStatus(ctx context.Context, token string) (*domain.BridgeStatus, error) {
	if status, ok := uc.cachedStatus(ctx, token); ok {
		if uc.metrics != nil {
			uc.metrics.StatusCacheHits.Inc()
		}
		return status, nil
	}

	if uc.metrics != nil {
		uc.metrics.StatusCacheMisses.Inc()
	}

	status, err := uc.fetchStatus(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := uc.storeStatus(ctx, status); err != nil {
		uc.logger.Warn().Err(err).Str("token", token).Msg("failed to cache bridge status")
	}

	return status, nil
}

func (uc *BridgeUseCase) fetchStatus(ctx context.Context, token string) (*domain.BridgeStatus, error) {
	status, err := uc.statusSource.FetchStatus(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStatusUnavailable, err)
	}

	if err := domain.ValidateLimits(status.Limits); err != nil {
		return nil, err
	}

	if status.Token == "" {
		status.Token = token
	}
	if status.FetchedAt.IsZero() {
		status.FetchedAt = uc.clock.Now()
	}

	return status, nil
}

func (uc *BridgeUseCase) cachedStatus(ctx context.Context, token string) (*domain.BridgeStatus, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, StatusCacheKeyPrefix+token)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("token", token).Msg("bridge status cache read failed")
		}
		return nil, false
	}

	var status domain.BridgeStatus
	if err := json.Unmarshal(data, &status); err != nil {
		uc.logger.Warn().Err(err).Str("token", token).Msg("discarding corrupt cached bridge status")
		if err := uc.cache.Delete(ctx, StatusCacheKeyPrefix+token); err != nil {
			uc.logger.Warn().Err(err).Str("token", token).Msg("failed to delete corrupt cached bridge status")
		}
		return nil, false
	}

	return &status, true
}

func (uc *BridgeUseCase) storeStatus(ctx context.Context, status *domain.BridgeStatus) error {
	if uc.cache == nil {
		return nil
	}

	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	return uc.cache.Set(ctx, StatusCacheKeyPrefix+status.Token, data, uc.cacheTTL)
}

// estimateFee returns nil when no estimate is wanted or the estimator fails.
// The fee is informational and never blocks a validation.
func (uc *BridgeUseCase) estimateFee(ctx context.Context, token string, destChainID int64, amount decimal.Decimal) *domain.FeeEstimate {
	if uc.feeEstimator == nil || destChainID == 0 {
		return nil
	}

	fee, err := uc.feeEstimator.EstimateFee(ctx, token, destChainID, amount)
	if err != nil {
		uc.logger.Warn().Err(err).
			Str("token", token).
			Int64("dest_chain_id", destChainID).
			Msg("bridge fee estimate failed")
		return nil
	}

	return fee
}

func (uc *BridgeUseCase) record(report *domain.ValidationReport, start time.Time) {
	if uc.metrics == nil {
		return
	}

	outcome := "valid"
	if !report.Valid() {
		outcome = "invalid"
	}

	uc.metrics.ValidationsTotal.WithLabelValues(report.Token, outcome).Inc()
	uc.metrics.ValidationDuration.Observe(time.Since(start).Seconds())
	uc.metrics.TransferAmountUSD.Observe(report.AmountUSD.InexactFloat64())

	for _, v := range report.Violations {
		uc.metrics.ViolationsTotal.WithLabelValues(report.Token, string(v.Kind)).Inc()
	}
}
