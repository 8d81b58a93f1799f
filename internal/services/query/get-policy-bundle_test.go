package query

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/mock/gomock"

	"github.com/feastly/draw-engine/internal/adapters/mongodb/snapshot"
	"github.com/feastly/draw-engine/internal/adapters/postgres/campaign"
	"github.com/feastly/draw-engine/internal/adapters/postgres/drawrecord"
	"github.com/feastly/draw-engine/internal/adapters/postgres/ledger"
	"github.com/feastly/draw-engine/internal/adapters/postgres/prize"
	"github.com/feastly/draw-engine/internal/adapters/redis"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

const testCampaignID = "camp-1"

type queryTestBed struct {
	uc        *UseCase
	campaigns *campaign.MockRepository
	prizes    *prize.MockRepository
	draws     *drawrecord.MockRepository
	ledgers   *ledger.MockRepository
	snapshots *snapshot.MockRepository
	cache     *redis.MockRedisRepository
}

func newQueryTestBed(t *testing.T) *queryTestBed {
	t.Helper()

	ctrl := gomock.NewController(t)

	bed := &queryTestBed{
		campaigns: campaign.NewMockRepository(ctrl),
		prizes:    prize.NewMockRepository(ctrl),
		draws:     drawrecord.NewMockRepository(ctrl),
		ledgers:   ledger.NewMockRepository(ctrl),
		snapshots: snapshot.NewMockRepository(ctrl),
		cache:     redis.NewMockRedisRepository(ctrl),
	}

	bed.uc = &UseCase{
		CampaignRepo: bed.campaigns,
		PrizeRepo:    bed.prizes,
		DrawRepo:     bed.draws,
		LedgerRepo:   bed.ledgers,
		SnapshotRepo: bed.snapshots,
		RedisRepo:    bed.cache,
	}

	return bed
}

func validBundle() *mmodel.PolicyBundle {
	var matrix [4][3]lottery.TierMultipliers
	for b := range matrix {
		for p := range matrix[b] {
			if b == int(lottery.B0) {
				matrix[b][p] = lottery.TierMultipliers{Fallback: lottery.MultiplierScale}
			} else {
				matrix[b][p] = lottery.TierMultipliers{
					High:     lottery.MultiplierScale,
					Mid:      lottery.MultiplierScale,
					Low:      lottery.MultiplierScale,
					Fallback: lottery.MultiplierScale,
				}
			}
		}
	}

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	return &mmodel.PolicyBundle{
		Version: 3,
		Campaign: mmodel.Campaign{
			ID:              testCampaignID,
			Status:          constant.CampaignStatusActive,
			CostAssetCode:   "PTS",
			RewardAssetCode: "PTS",
			CostPerDraw:     100,
			Timezone:        "UTC",
			WeightScale:     1_000_000,
			StartAt:         now.Add(-time.Hour),
			EndAt:           now.Add(time.Hour),
		},
		Rules: []mmodel.TierRule{
			{CampaignID: testCampaignID, Tier: lottery.TierLow, BaseWeight: 400_000},
			{CampaignID: testCampaignID, Tier: lottery.TierFallback, BaseWeight: 600_000},
		},
		Pricing: lottery.PricingConfig{
			Scale:                 1_000_000,
			BudgetThresholds:      [3]int64{0, 10_000, 50_000},
			PressureThresholds:    [2]int64{0, 5_000},
			PressureWindowSeconds: 300,
			Matrix:                matrix,
		},
		Pity: lottery.PityConfig{Thresholds: []lottery.PityThreshold{
			{Streak: 5, Multiplier: 15_000},
			{Streak: 12, Hard: true},
		}},
		Luck: lottery.LuckConfig{
			SampleThreshold:   500,
			ExpectedEmptyRate: decimal.RequireFromString("0.6"),
			BoostFactor:       decimal.RequireFromString("0.8"),
			BoostCeiling:      15_000,
		},
		Guard: lottery.GuardConfig{
			ForceNonEmptyThreshold: 8,
			HighStreakCap:          2,
			ForceBudgetCeiling:     50_000,
		},
	}
}

func validPrizes() []mmodel.Prize {
	return []mmodel.Prize{
		{ID: "pz-low", CampaignID: testCampaignID, Tier: lottery.TierLow, Value: 100, RemainingStock: 10, Status: constant.PrizeStatusActive},
		{ID: "pz-none", CampaignID: testCampaignID, Tier: lottery.TierFallback, Value: 0, RemainingStock: 1_000, Status: constant.PrizeStatusActive},
	}
}

func TestGetPolicyBundleCacheMiss(t *testing.T) {
	bed := newQueryTestBed(t)
	bundle := validBundle()

	bed.cache.EXPECT().Get(gomock.Any(), "policy_bundle:"+testCampaignID).Return(nil, nil)
	bed.campaigns.EXPECT().FindPolicyBundle(gomock.Any(), testCampaignID).Return(bundle, nil)
	bed.prizes.EXPECT().FindAvailableByCampaign(gomock.Any(), testCampaignID).Return(validPrizes(), nil)

	var cached []byte

	bed.cache.EXPECT().Set(gomock.Any(), "policy_bundle:"+testCampaignID, gomock.Any(), DefaultPolicyCacheTTL).DoAndReturn(
		func(_ context.Context, _ string, value []byte, _ time.Duration) error {
			cached = value
			return nil
		})

	got, err := bed.uc.GetPolicyBundle(context.Background(), testCampaignID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), got.Version)
	assert.Len(t, got.Prizes, 2)

	// The cached form carries the decimal fields as strings so msgpack can
	// round-trip them.
	var stored mmodel.PolicyBundle

	require.NoError(t, msgpack.Unmarshal(cached, &stored))
	assert.Equal(t, "0.6", stored.Luck.ExpectedEmptyRateStr)
	assert.Equal(t, "0.8", stored.Luck.BoostFactorStr)
}

func TestGetPolicyBundleCacheHit(t *testing.T) {
	bed := newQueryTestBed(t)

	bundle := validBundle()
	bundle.Prizes = validPrizes()
	bundle.Luck.ExpectedEmptyRateStr = "0.6"
	bundle.Luck.BoostFactorStr = "0.8"

	raw, err := msgpack.Marshal(bundle)
	require.NoError(t, err)

	bed.cache.EXPECT().Get(gomock.Any(), "policy_bundle:"+testCampaignID).Return(raw, nil)

	got, err := bed.uc.GetPolicyBundle(context.Background(), testCampaignID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), got.Version)
	assert.True(t, got.Luck.ExpectedEmptyRate.Equal(decimal.RequireFromString("0.6")))
	assert.True(t, got.Luck.BoostFactor.Equal(decimal.RequireFromString("0.8")))
	assert.Len(t, got.Prizes, 2)
}

func TestGetPolicyBundleCorruptCacheFallsThrough(t *testing.T) {
	bed := newQueryTestBed(t)
	bundle := validBundle()

	bed.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte("not msgpack"), nil)
	bed.campaigns.EXPECT().FindPolicyBundle(gomock.Any(), testCampaignID).Return(bundle, nil)
	bed.prizes.EXPECT().FindAvailableByCampaign(gomock.Any(), testCampaignID).Return(validPrizes(), nil)
	bed.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	got, err := bed.uc.GetPolicyBundle(context.Background(), testCampaignID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
}

func TestGetPolicyBundleMissingFallbackPrizeRejected(t *testing.T) {
	bed := newQueryTestBed(t)
	bundle := validBundle()

	bed.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	bed.campaigns.EXPECT().FindPolicyBundle(gomock.Any(), testCampaignID).Return(bundle, nil)
	bed.prizes.EXPECT().FindAvailableByCampaign(gomock.Any(), testCampaignID).Return([]mmodel.Prize{
		{ID: "pz-low", CampaignID: testCampaignID, Tier: lottery.TierLow, Value: 100, RemainingStock: 10, Status: constant.PrizeStatusActive},
	}, nil)

	// An invalid bundle must never be cached: no Set expectation.
	_, err := bed.uc.GetPolicyBundle(context.Background(), testCampaignID)
	assert.ErrorIs(t, err, constant.ErrConfigurationInvalid)
}

func TestGetPolicyBundleMalformedPricingRejected(t *testing.T) {
	bed := newQueryTestBed(t)
	bundle := validBundle()
	bundle.Pricing.Matrix[1][0].Fallback = 0

	bed.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	bed.campaigns.EXPECT().FindPolicyBundle(gomock.Any(), testCampaignID).Return(bundle, nil)
	bed.prizes.EXPECT().FindAvailableByCampaign(gomock.Any(), testCampaignID).Return(validPrizes(), nil)

	_, err := bed.uc.GetPolicyBundle(context.Background(), testCampaignID)
	assert.ErrorIs(t, err, constant.ErrConfigurationInvalid)
}

func TestGetPolicyBundleCampaignNotFound(t *testing.T) {
	bed := newQueryTestBed(t)

	bed.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	bed.campaigns.EXPECT().FindPolicyBundle(gomock.Any(), testCampaignID).Return(nil, constant.ErrCampaignNotFound)

	_, err := bed.uc.GetPolicyBundle(context.Background(), testCampaignID)
	assert.ErrorIs(t, err, constant.ErrCampaignNotFound)
}
