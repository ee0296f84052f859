package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bridgecheck/internal/domain"
)

// StatusSource provides the bridge limits for a token.
type StatusSource interface {
	FetchStatus(ctx context.Context, token string) (*domain.BridgeStatus, error)
}

// PriceSource provides the current USD price of a token.
type PriceSource interface {
	FetchPrice(ctx context.Context, token string) (decimal.Decimal, error)
}

// FeeEstimator quotes the bridge fee for a transfer.
type FeeEstimator interface {
	EstimateFee(ctx context.Context, token string, destChainID int64, amount decimal.Decimal) (*domain.FeeEstimate, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
