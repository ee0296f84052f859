package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/iho/bridgecheck/internal/domain"
	"github.com/iho/bridgecheck/internal/infrastructure/metrics"
)

const maxBodySize = 1 << 20

// StatusError is a non-2xx response from the status API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status api returned %d: %s", e.Code, e.Body)
}

// Client talks to the bridge status API. It implements usecase.StatusSource,
// usecase.PriceSource and usecase.FeeEstimator.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	retrier    *Retrier
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// Config for Client.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      uint64
	BreakerFailures uint32 // consecutive failures that open the breaker
	BreakerTimeout  time.Duration
	HTTPClient      *http.Client
	Metrics         *metrics.Metrics
	Logger          zerolog.Logger
}

// NewClient creates a new Client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger.With().Str("component", "status_client").Logger()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "status-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.Code < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		breaker:    breaker,
		retrier:    NewRetrier(cfg.MaxRetries, logger),
		metrics:    cfg.Metrics,
		logger:     logger,
	}
}

type statusPayload struct {
	Token                         string          `json:"token"`
	MaxSingleTransactionLimitUSD  decimal.Decimal `json:"max_single_transaction_limit_usd"`
	MaxDailyLimitUSD              decimal.Decimal `json:"max_daily_limit_usd"`
	TotalTransferredLast24HourUSD decimal.Decimal `json:"total_transferred_last_24_hour_usd"`
	DailyLimitResetTimestamp      int64           `json:"daily_limit_reset_timestamp"`
}

type pricePayload struct {
	Token    string          `json:"token"`
	PriceUSD decimal.Decimal `json:"price_usd"`
}

type feePayload struct {
	Amount decimal.Decimal `json:"amount"`
	Symbol string          `json:"symbol"`
}

// FetchStatus retrieves the bridge limits for token.
func (c *Client) FetchStatus(ctx context.Context, token string) (*domain.BridgeStatus, error) {
	var p statusPayload
	if err := c.get(ctx, "status", "/bridge/status/"+url.PathEscape(token), &p); err != nil {
		return nil, err
	}

	return &domain.BridgeStatus{
		Token: token,
		Limits: domain.TransferLimits{
			MaxSingleTransactionLimitUSD:  p.MaxSingleTransactionLimitUSD,
			MaxDailyLimitUSD:              p.MaxDailyLimitUSD,
			TotalTransferredLast24HourUSD: p.TotalTransferredLast24HourUSD,
			DailyLimitResetTimestamp:      p.DailyLimitResetTimestamp,
		},
		FetchedAt: time.Now().UTC(),
	}, nil
}

// FetchPrice retrieves the USD price of token.
func (c *Client) FetchPrice(ctx context.Context, token string) (decimal.Decimal, error) {
	var p pricePayload
	if err := c.get(ctx, "price", "/prices/"+url.PathEscape(token), &p); err != nil {
		return decimal.Zero, err
	}
	return p.PriceUSD, nil
}

// EstimateFee retrieves the fee for bridging amount of token to destChainID.
func (c *Client) EstimateFee(ctx context.Context, token string, destChainID int64, amount decimal.Decimal) (*domain.FeeEstimate, error) {
	q := url.Values{}
	q.Set("dest_chain_id", strconv.FormatInt(destChainID, 10))
	q.Set("amount", amount.String())

	var p feePayload
	if err := c.get(ctx, "fee", "/bridge/fee/"+url.PathEscape(token)+"?"+q.Encode(), &p); err != nil {
		return nil, err
	}

	return &domain.FeeEstimate{Amount: p.Amount, Symbol: p.Symbol}, nil
}

// get performs a GET with retries and the circuit breaker, decoding JSON into out.
func (c *Client) get(ctx context.Context, resource, path string, out any) error {
	start := time.Now()

	err := c.retrier.Retry(ctx, func() error {
		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.do(ctx, path, out)
		})
		return err
	})

	c.observe(resource, start, err)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrTokenNotSupported, path)
	}

	return err
}

func (c *Client) do(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

func (c *Client) observe(resource string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
	}

	c.metrics.StatusFetches.WithLabelValues(resource, status).Inc()
	c.metrics.StatusFetchDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
}
