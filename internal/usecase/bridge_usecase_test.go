package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/bridgecheck/internal/domain"
	"github.com/iho/bridgecheck/internal/infrastructure/metrics"
	"github.com/iho/bridgecheck/internal/usecase"
	"github.com/iho/bridgecheck/internal/usecase/mocks"
)

const hundredTokens = "100000000000000000000" // 100 * 10^18

type bridgeMocks struct {
	status *mocks.MockStatusSource
	price  *mocks.MockPriceSource
	fee    *mocks.MockFeeEstimator
	cache  *mocks.MockCache
	idGen  *mocks.MockIDGenerator
}

func newBridgeMocks(ctrl *gomock.Controller) *bridgeMocks {
	return &bridgeMocks{
		status: mocks.NewMockStatusSource(ctrl),
		price:  mocks.NewMockPriceSource(ctrl),
		fee:    mocks.NewMockFeeEstimator(ctrl),
		cache:  mocks.NewMockCache(ctrl),
		idGen:  mocks.NewMockIDGenerator(ctrl),
	}
}

func (m *bridgeMocks) useCase(withCache bool, met *metrics.Metrics) *usecase.BridgeUseCase {
	cfg := usecase.BridgeConfig{
		StatusSource: m.status,
		PriceSource:  m.price,
		FeeEstimator: m.fee,
		IDGenerator:  m.idGen,
		Metrics:      met,
		Logger:       zerolog.Nop(),
	}
	if withCache {
		cfg.Cache = m.cache
	}
	return usecase.NewBridgeUseCase(cfg)
}

func bridgeStatus(single, daily, used int64) *domain.BridgeStatus {
	return &domain.BridgeStatus{
		Token: "XVS",
		Limits: domain.TransferLimits{
			MaxSingleTransactionLimitUSD:  decimal.NewFromInt(single),
			MaxDailyLimitUSD:              decimal.NewFromInt(daily),
			TotalTransferredLast24HourUSD: decimal.NewFromInt(used),
			DailyLimitResetTimestamp:      1700000000,
		},
		FetchedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func validInput(amount string) usecase.ValidateTransferInput {
	return usecase.ValidateTransferInput{
		Token:                 "xvs",
		Amount:                amount,
		WalletBalanceMantissa: hundredTokens,
		TokenDecimals:         18,
	}
}

func TestBridgeUseCase_ValidateTransfer(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		price  int64
		status *domain.BridgeStatus
		want   []domain.ViolationKind
	}{
		{
			name:   "valid transfer",
			amount: "50",
			price:  1,
			status: bridgeStatus(1000, 1000, 0),
		},
		{
			name:   "single limit exceeded",
			amount: "50",
			price:  30,
			status: bridgeStatus(1000, 1_000_000, 0),
			want:   []domain.ViolationKind{domain.ViolationSingleLimitExceeded},
		},
		{
			name:   "daily limit exceeded",
			amount: "50",
			price:  1,
			status: bridgeStatus(1000, 1000, 980),
			want:   []domain.ViolationKind{domain.ViolationDailyLimitExceeded},
		},
		{
			name:   "insufficient balance",
			amount: "150",
			price:  1,
			status: bridgeStatus(1000, 1000, 0),
			want:   []domain.ViolationKind{domain.ViolationInsufficientBalance},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := newBridgeMocks(ctrl)

			m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(tt.status, nil)
			m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(tt.price), nil)
			m.idGen.EXPECT().Generate().Return("rep-1")

			report, err := m.useCase(false, nil).ValidateTransfer(context.Background(), validInput(tt.amount))
			require.NoError(t, err)

			assert.Equal(t, "rep-1", report.ID)
			assert.Equal(t, "XVS", report.Token)
			assert.True(t, report.WalletBalance.Equal(decimal.NewFromInt(100)), "balance %s", report.WalletBalance)
			assert.Nil(t, report.Fee)
			assert.False(t, report.CheckedAt.IsZero())

			got := make([]domain.ViolationKind, 0, len(report.Violations))
			for _, v := range report.Violations {
				got = append(got, v.Kind)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestBridgeUseCase_ValidateTransfer_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.ValidateTransferInput
		wantErr error
	}{
		{name: "empty amount", input: validInput(""), wantErr: domain.ErrAmountRequired},
		{name: "negative amount", input: validInput("-5"), wantErr: domain.ErrNegativeAmount},
		{name: "non numeric amount", input: validInput("ten"), wantErr: domain.ErrInvalidAmountFormat},
		{name: "zero amount", input: validInput("0"), wantErr: domain.ErrInvalidAmount},
		{
			name: "bad token",
			input: usecase.ValidateTransferInput{
				Token: "x$s", Amount: "1", WalletBalanceMantissa: "1", TokenDecimals: 18,
			},
			wantErr: domain.ErrInvalidToken,
		},
		{
			name: "bad mantissa",
			input: usecase.ValidateTransferInput{
				Token: "XVS", Amount: "1", WalletBalanceMantissa: "1.5", TokenDecimals: 18,
			},
			wantErr: domain.ErrInvalidMantissa,
		},
		{
			name: "negative chain id",
			input: usecase.ValidateTransferInput{
				Token: "XVS", Amount: "1", WalletBalanceMantissa: "1", TokenDecimals: 18, DestChainID: -1,
			},
			wantErr: domain.ErrInvalidChainID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := newBridgeMocks(ctrl)

			_, err := m.useCase(true, nil).ValidateTransfer(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBridgeUseCase_ValidateTransfer_ServesStatusFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBridgeMocks(ctrl)

	cached, err := json.Marshal(bridgeStatus(1000, 1000, 980))
	require.NoError(t, err)

	m.cache.EXPECT().Get(gomock.Any(), "bridge:status:XVS").Return(cached, nil)
	m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil)
	m.idGen.EXPECT().Generate().Return("rep-2")

	report, err := m.useCase(true, nil).ValidateTransfer(context.Background(), validInput("50"))
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	assert.Equal(t, domain.ViolationDailyLimitExceeded, report.Violations[0].Kind)
	assert.True(t, report.RemainingDailyUSD.Equal(decimal.NewFromInt(20)))
}

func TestBridgeUseCase_ValidateTransfer_CachesFetchedStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBridgeMocks(ctrl)

	m.cache.EXPECT().Get(gomock.Any(), "bridge:status:XVS").Return(nil, usecase.ErrCacheMiss)
	m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bridgeStatus(1000, 1000, 0), nil)
	m.cache.EXPECT().Set(gomock.Any(), "bridge:status:XVS", gomock.Any(), usecase.DefaultStatusCacheTTL).
		DoAndReturn(func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			var stored domain.BridgeStatus
			if err := json.Unmarshal(value, &stored); err != nil {
				t.Fatalf("cached value is not valid json: %v", err)
			}
			if !stored.Limits.MaxDailyLimitUSD.Equal(decimal.NewFromInt(1000)) {
				t.Fatalf("unexpected cached limits: %+v", stored.Limits)
			}
			return nil
		})
	m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil)
	m.idGen.EXPECT().Generate().Return("rep-3")

	report, err := m.useCase(true, nil).ValidateTransfer(context.Background(), validInput("50"))
	require.NoError(t, err)
	assert.True(t, report.Valid())
}

func TestBridgeUseCase_ValidateTransfer_CacheFailuresAreNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBridgeMocks(ctrl)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bridgeStatus(1000, 1000, 0), nil)
	m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
	m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil)
	m.idGen.EXPECT().Generate().Return("rep-4")

	_, err := m.useCase(true, nil).ValidateTransfer(context.Background(), validInput("50"))
	require.NoError(t, err)
}

func TestBridgeUseCase_ValidateTransfer_UpstreamErrors(t *testing.T) {
	t.Run("status unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newBridgeMocks(ctrl)

		m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(nil, errors.New("503"))
		m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil).AnyTimes()

		_, err := m.useCase(false, nil).ValidateTransfer(context.Background(), validInput("50"))
		assert.ErrorIs(t, err, domain.ErrStatusUnavailable)
	})

	t.Run("price unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newBridgeMocks(ctrl)

		m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bridgeStatus(1000, 1000, 0), nil).AnyTimes()
		m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.Zero, errors.New("timeout"))

		_, err := m.useCase(false, nil).ValidateTransfer(context.Background(), validInput("50"))
		assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
	})

	t.Run("inconsistent limits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newBridgeMocks(ctrl)

		bad := bridgeStatus(1000, 1000, 0)
		bad.Limits.MaxSingleTransactionLimitUSD = decimal.NewFromInt(-1)
		m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bad, nil)
		m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil).AnyTimes()

		_, err := m.useCase(false, nil).ValidateTransfer(context.Background(), validInput("50"))
		assert.ErrorIs(t, err, domain.ErrInvalidLimits)
	})
}

func TestBridgeUseCase_ValidateTransfer_FeeEstimate(t *testing.T) {
	t.Run("fee attached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newBridgeMocks(ctrl)

		input := validInput("50")
		input.DestChainID = 1

		m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bridgeStatus(1000, 1000, 0), nil)
		m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil)
		m.idGen.EXPECT().Generate().Return("rep-5")
		m.fee.EXPECT().EstimateFee(gomock.Any(), "XVS", int64(1), gomock.Any()).
			Return(&domain.FeeEstimate{Amount: decimal.RequireFromString("0.0012"), Symbol: "BNB"}, nil)

		report, err := m.useCase(false, nil).ValidateTransfer(context.Background(), input)
		require.NoError(t, err)
		require.NotNil(t, report.Fee)
		assert.Equal(t, "BNB", report.Fee.Symbol)
	})

	t.Run("fee failure leaves report intact", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newBridgeMocks(ctrl)

		input := validInput("50")
		input.DestChainID = 1

		m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bridgeStatus(1000, 1000, 0), nil)
		m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil)
		m.idGen.EXPECT().Generate().Return("rep-6")
		m.fee.EXPECT().EstimateFee(gomock.Any(), "XVS", int64(1), gomock.Any()).Return(nil, errors.New("rpc down"))

		report, err := m.useCase(false, nil).ValidateTransfer(context.Background(), input)
		require.NoError(t, err)
		assert.Nil(t, report.Fee)
		assert.True(t, report.Valid())
	})
}

func TestBridgeUseCase_ValidateTransfer_RecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBridgeMocks(ctrl)
	met := metrics.New(prometheus.NewRegistry())

	m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bridgeStatus(100, 1_000_000, 0), nil)
	m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil)
	m.idGen.EXPECT().Generate().Return("rep-7")

	input := validInput("5000")
	input.WalletBalanceMantissa = "10000000000000000000" // 10 tokens

	_, err := m.useCase(false, met).ValidateTransfer(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(met.ValidationsTotal.WithLabelValues("XVS", "invalid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(met.ViolationsTotal.WithLabelValues("XVS", "single_limit_exceeded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(met.ViolationsTotal.WithLabelValues("XVS", "insufficient_balance")))
	assert.Equal(t, float64(1), testutil.ToFloat64(met.StatusCacheMisses))
}

func TestBridgeUseCase_GetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBridgeMocks(ctrl)

	m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bridgeStatus(1000, 5000, 1000), nil)
	m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(4), nil)

	report, err := m.useCase(false, nil).GetStatus(context.Background(), "xvs")
	require.NoError(t, err)

	assert.True(t, report.RemainingDailyUSD.Equal(decimal.NewFromInt(4000)))
	assert.True(t, report.RemainingDailyTokens.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.SingleLimitTokens.Equal(decimal.NewFromInt(250)))
}

func TestBridgeUseCase_RefreshStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBridgeMocks(ctrl)

	m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bridgeStatus(1000, 1000, 0), nil)
	m.cache.EXPECT().Set(gomock.Any(), "bridge:status:XVS", gomock.Any(), usecase.DefaultStatusCacheTTL).Return(nil)

	err := m.useCase(true, nil).RefreshStatus(context.Background(), "XVS")
	require.NoError(t, err)
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestBridgeUseCase_ValidateTransfer_UsesClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBridgeMocks(ctrl)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	status := bridgeStatus(1000, 1000, 0)
	status.FetchedAt = time.Time{}

	m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(status, nil)
	m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil)
	m.idGen.EXPECT().Generate().Return("rep-1")

	uc := usecase.NewBridgeUseCase(usecase.BridgeConfig{
		StatusSource: m.status,
		PriceSource:  m.price,
		IDGenerator:  m.idGen,
		Clock:        fixedClock(now),
		Logger:       zerolog.Nop(),
	})

	report, err := uc.ValidateTransfer(context.Background(), validInput("1"))
	require.NoError(t, err)
	assert.Equal(t, now, report.CheckedAt)
	assert.Equal(t, now, status.FetchedAt)
}

func TestBridgeUseCase_ValidateTransfer_DropsCorruptCacheEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBridgeMocks(ctrl)

	m.cache.EXPECT().Get(gomock.Any(), "bridge:status:XVS").Return([]byte("{not json"), nil)
	m.cache.EXPECT().Delete(gomock.Any(), "bridge:status:XVS").Return(nil)
	m.status.EXPECT().FetchStatus(gomock.Any(), "XVS").Return(bridgeStatus(1000, 1000, 0), nil)
	m.cache.EXPECT().Set(gomock.Any(), "bridge:status:XVS", gomock.Any(), gomock.Any()).Return(nil)
	m.price.EXPECT().FetchPrice(gomock.Any(), "XVS").Return(decimal.NewFromInt(1), nil)
	m.idGen.EXPECT().Generate().Return("rep-5")

	report, err := m.useCase(true, nil).ValidateTransfer(context.Background(), validInput("50"))
	require.NoError(t, err)
	assert.True(t, report.Valid())
}
