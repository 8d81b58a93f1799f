package command

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/feastly/draw-engine/internal/adapters/mongodb/snapshot"
	"github.com/feastly/draw-engine/internal/adapters/postgres/drawrecord"
	"github.com/feastly/draw-engine/internal/adapters/postgres/ledger"
	"github.com/feastly/draw-engine/internal/adapters/postgres/prize"
	"github.com/feastly/draw-engine/internal/adapters/postgres/state"
	"github.com/feastly/draw-engine/internal/adapters/rabbitmq"
	"github.com/feastly/draw-engine/internal/adapters/redis"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

const (
	testUser     = "user-1"
	testCampaign = "camp-1"
	testIdemKey  = "draw-abc"
	testSeed     = int64(42)
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type fakeTxManager struct{}

func (fakeTxManager) WithinSerializable(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return fn(ctx, nil)
}

// firstPickRNG always returns 0, so sampling picks the first positive-weight
// option deterministically.
type firstPickRNG struct{}

func (firstPickRNG) Int63n(int64) int64 { return 0 }

type drawTestBed struct {
	uc        *UseCase
	policy    *MockPolicyProvider
	ledgers   *ledger.MockRepository
	prizes    *prize.MockRepository
	draws     *drawrecord.MockRepository
	states    *state.MockRepository
	snapshots *snapshot.MockRepository
	producer  *rabbitmq.MockProducerRepository
	locks     *redis.MockRedisRepository
	fanout    chan struct{}
}

func newDrawTestBed(t *testing.T) *drawTestBed {
	t.Helper()

	ctrl := gomock.NewController(t)

	bed := &drawTestBed{
		policy:    NewMockPolicyProvider(ctrl),
		ledgers:   ledger.NewMockRepository(ctrl),
		prizes:    prize.NewMockRepository(ctrl),
		draws:     drawrecord.NewMockRepository(ctrl),
		states:    state.NewMockRepository(ctrl),
		snapshots: snapshot.NewMockRepository(ctrl),
		producer:  rabbitmq.NewMockProducerRepository(ctrl),
		locks:     redis.NewMockRedisRepository(ctrl),
		fanout:    make(chan struct{}),
	}

	bed.uc = &UseCase{
		Policy:       bed.policy,
		LedgerRepo:   bed.ledgers,
		PrizeRepo:    bed.prizes,
		DrawRepo:     bed.draws,
		StateRepo:    bed.states,
		SnapshotRepo: bed.snapshots,
		Producer:     bed.producer,
		RedisRepo:    bed.locks,
		Tx:           fakeTxManager{},
		NewRNG:       func() (lottery.RNG, int64) { return firstPickRNG{}, testSeed },
		Clock:        func() time.Time { return testNow },
	}

	return bed
}

// expectFanOut wires the async post-commit archive and event expectations.
// The producer runs last in the fan-out goroutine, so waiting on it drains
// the whole goroutine before the test ends.
func (b *drawTestBed) expectFanOut() {
	b.snapshots.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	b.producer.EXPECT().
		ProduceDrawCompleted(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *mmodel.DrawCompletedEvent) error {
			close(b.fanout)
			return nil
		})
}

func (b *drawTestBed) waitFanOut(t *testing.T) {
	t.Helper()

	select {
	case <-b.fanout:
	case <-time.After(2 * time.Second):
		t.Fatal("post-commit fan-out never ran")
	}
}

func identityCell() lottery.TierMultipliers {
	return lottery.TierMultipliers{
		High:     lottery.MultiplierScale,
		Mid:      lottery.MultiplierScale,
		Low:      lottery.MultiplierScale,
		Fallback: lottery.MultiplierScale,
	}
}

func testBundle() *mmodel.PolicyBundle {
	var matrix [4][3]lottery.TierMultipliers
	for b := range matrix {
		for p := range matrix[b] {
			if b == int(lottery.B0) {
				matrix[b][p] = lottery.TierMultipliers{Fallback: lottery.MultiplierScale}
			} else {
				matrix[b][p] = identityCell()
			}
		}
	}

	return &mmodel.PolicyBundle{
		Version: 7,
		Campaign: mmodel.Campaign{
			ID:              testCampaign,
			Name:            "lunch rush",
			Status:          constant.CampaignStatusActive,
			CostAssetCode:   "PTS",
			RewardAssetCode: "PTS",
			CostPerDraw:     100,
			DailyQuota:      5,
			Timezone:        "UTC",
			WeightScale:     1_000_000,
			StartAt:         testNow.Add(-time.Hour),
			EndAt:           testNow.Add(24 * time.Hour),
		},
		Rules: []mmodel.TierRule{
			{CampaignID: testCampaign, Tier: lottery.TierHigh, BaseWeight: 50_000, DailyCapPerUser: 1},
			{CampaignID: testCampaign, Tier: lottery.TierMid, BaseWeight: 150_000, DailyCapPerUser: -1},
			{CampaignID: testCampaign, Tier: lottery.TierLow, BaseWeight: 300_000, DailyCapPerUser: -1},
			{CampaignID: testCampaign, Tier: lottery.TierFallback, BaseWeight: 500_000, DailyCapPerUser: -1},
		},
		Prizes: []mmodel.Prize{
			{ID: "pz-high", CampaignID: testCampaign, Tier: lottery.TierHigh, Name: "free dinner", BaseWeight: 10, Value: 5_000, InitialStock: 10, RemainingStock: 10, Status: constant.PrizeStatusActive},
			{ID: "pz-mid", CampaignID: testCampaign, Tier: lottery.TierMid, Name: "dessert", BaseWeight: 10, Value: 1_000, InitialStock: 50, RemainingStock: 50, Status: constant.PrizeStatusActive},
			{ID: "pz-low", CampaignID: testCampaign, Tier: lottery.TierLow, Name: "sticker", BaseWeight: 10, Value: 200, InitialStock: 500, RemainingStock: 500, Status: constant.PrizeStatusActive},
			{ID: "pz-none", CampaignID: testCampaign, Tier: lottery.TierFallback, Name: "better luck", BaseWeight: 10, Value: 0, InitialStock: 1_000_000, RemainingStock: 1_000_000, Status: constant.PrizeStatusActive},
		},
		Pricing: lottery.PricingConfig{
			Scale:                 1_000_000,
			BudgetThresholds:      [3]int64{0, 50_000, 200_000},
			PressureThresholds:    [2]int64{0, 10_000},
			PressureWindowSeconds: 300,
			Matrix:                matrix,
		},
		Pity: lottery.PityConfig{Thresholds: []lottery.PityThreshold{
			{Streak: 3, Multiplier: 15_000},
			{Streak: 6, Multiplier: 20_000},
			{Streak: 10, Hard: true},
		}},
		Luck: lottery.LuckConfig{
			SampleThreshold:   1_000,
			ExpectedEmptyRate: decimal.RequireFromString("0.5"),
			BoostFactor:       decimal.NewFromInt(1),
			BoostCeiling:      20_000,
		},
		Guard: lottery.GuardConfig{
			ForceNonEmptyThreshold: 5,
			HighStreakCap:          3,
			ForceBudgetCeiling:     100_000,
		},
	}
}

func testPrize(bundle *mmodel.PolicyBundle, id string) *mmodel.Prize {
	for i := range bundle.Prizes {
		if bundle.Prizes[i].ID == id {
			p := bundle.Prizes[i]
			return &p
		}
	}

	return nil
}

func drawInput() *mmodel.CreateDrawInput {
	return &mmodel.CreateDrawInput{
		UserID:         testUser,
		CampaignID:     testCampaign,
		IdempotencyKey: testIdemKey,
	}
}

func zeroUserState() *mmodel.UserCampaignState {
	return &mmodel.UserCampaignState{UserID: testUser, CampaignID: testCampaign}
}

func zeroGlobalState() *mmodel.CampaignGlobalState {
	return &mmodel.CampaignGlobalState{CampaignID: testCampaign}
}

func TestExecuteDrawColdStartAwardsFirstTier(t *testing.T) {
	bed := newDrawTestBed(t)
	bundle := testBundle()

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(nil, constant.ErrDrawRecordNotFound)
	bed.policy.EXPECT().GetPolicyBundle(gomock.Any(), testCampaign).Return(bundle, nil)
	bed.states.EXPECT().FindUserState(gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(zeroUserState(), nil)
	bed.states.EXPECT().FindGlobalState(gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)
	bed.ledgers.EXPECT().Reserve(gomock.Any(), testUser, "PTS", int64(100), testIdemKey+constant.CostBusinessKeySuffix).Return(&mmodel.Balance{}, nil)
	bed.locks.EXPECT().AcquireDrawLock(gomock.Any(), testUser, testCampaign, gomock.Any()).Return(func() {}, nil)

	bed.states.EXPECT().FindUserStateForUpdate(gomock.Any(), gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(zeroUserState(), nil)
	bed.prizes.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), "pz-high").Return(testPrize(bundle, "pz-high"), nil)
	bed.prizes.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), "pz-high").Return(true, nil)
	bed.ledgers.EXPECT().CommitReservation(gomock.Any(), gomock.Any(), testUser, "PTS", int64(100), testIdemKey+constant.CostBusinessKeySuffix).Return(nil)
	bed.ledgers.EXPECT().Credit(gomock.Any(), gomock.Any(), testUser, "PTS", int64(5_000), testIdemKey+constant.RewardBusinessKeySuffix).Return(nil)

	var savedUser mmodel.UserCampaignState

	bed.states.EXPECT().SaveUserState(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, s *mmodel.UserCampaignState) error {
			savedUser = *s
			return nil
		})

	bed.states.EXPECT().FindGlobalStateForUpdate(gomock.Any(), gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)

	var savedGlobal mmodel.CampaignGlobalState

	bed.states.EXPECT().SaveGlobalState(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, s *mmodel.CampaignGlobalState) error {
			savedGlobal = *s
			return nil
		})

	var created mmodel.DrawRecord

	bed.draws.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, r *mmodel.DrawRecord) error {
			created = *r
			return nil
		})

	bed.expectFanOut()
	bed.ledgers.EXPECT().ListBalances(gomock.Any(), testUser).Return([]mmodel.Balance{{UserID: testUser, AssetCode: "PTS", Available: 4_900}}, nil)

	result, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	require.NoError(t, err)
	bed.waitFanOut(t)

	assert.Equal(t, constant.OutcomeAwarded, result.Outcome)
	assert.False(t, result.Replayed)
	require.NotNil(t, result.Prize)
	assert.Equal(t, "pz-high", result.Prize.ID)
	assert.Equal(t, int64(5_000), result.Prize.Value)
	assert.Equal(t, int64(100), result.CostAmount)
	assert.NotEmpty(t, result.DecisionID)
	assert.Len(t, result.Balances, 1)

	assert.Equal(t, 1, savedUser.TotalDrawsToday)
	assert.Equal(t, 1, savedUser.HighAwardsToday)
	assert.Equal(t, 1, savedUser.HighStreak)
	assert.Equal(t, 0, savedUser.EmptyStreak)
	assert.Equal(t, "2026-05-10", savedUser.LastResetDate)

	assert.Equal(t, int64(1), savedGlobal.CumulativeDraws)
	assert.Equal(t, int64(0), savedGlobal.CumulativeEmpties)
	assert.Equal(t, int64(4_900), savedGlobal.BudgetDebt)
	assert.Equal(t, int64(100), savedGlobal.WindowCost)
	assert.Equal(t, int64(5_000), savedGlobal.WindowReward)

	assert.Equal(t, testSeed, created.Snapshot.RNGSeed)
	assert.Equal(t, int64(7), created.Snapshot.PolicyVersion)
	assert.Equal(t, "B3", created.Snapshot.BudgetTier)
	assert.Equal(t, lottery.TierHigh, created.Snapshot.FinalTier)
	assert.Equal(t, lottery.PityNone, created.Snapshot.PityType)
	assert.False(t, created.Snapshot.Forced)
	assert.False(t, created.Snapshot.StockFellBack)
	assert.Len(t, created.Snapshot.Stages, 8)
}

func TestExecuteDrawReplayReturnsStoredResult(t *testing.T) {
	bed := newDrawTestBed(t)

	prizeID := "pz-mid"
	stored := &mmodel.DrawRecord{
		ID:             "draw-1",
		UserID:         testUser,
		CampaignID:     testCampaign,
		IdempotencyKey: testIdemKey,
		PrizeID:        &prizeID,
		PrizeName:      "dessert",
		PrizeValue:     1_000,
		Tier:           lottery.TierMid,
		Outcome:        constant.OutcomeAwarded,
		CostAssetCode:  "PTS",
		CostAmount:     100,
		CreatedAt:      testNow.Add(-time.Minute),
	}

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(stored, nil)
	bed.ledgers.EXPECT().ListBalances(gomock.Any(), testUser).Return(nil, nil)

	result, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	require.NoError(t, err)

	assert.True(t, result.Replayed)
	assert.Equal(t, "draw-1", result.DecisionID)
	require.NotNil(t, result.Prize)
	assert.Equal(t, "pz-mid", result.Prize.ID)
}

func TestExecuteDrawQuotaExceeded(t *testing.T) {
	bed := newDrawTestBed(t)
	bundle := testBundle()

	used := zeroUserState()
	used.TotalDrawsToday = 5
	used.LastResetDate = "2026-05-10"

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(nil, constant.ErrDrawRecordNotFound)
	bed.policy.EXPECT().GetPolicyBundle(gomock.Any(), testCampaign).Return(bundle, nil)
	bed.states.EXPECT().FindUserState(gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(used, nil)

	_, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	assert.ErrorIs(t, err, constant.ErrQuotaExceeded)
	// The message is a fixed hint; identifiers must not leak into it.
	assert.NotContains(t, err.Error(), testCampaign)
}

func TestExecuteDrawQuotaResetsAcrossLocalMidnight(t *testing.T) {
	bed := newDrawTestBed(t)
	bundle := testBundle()

	// Yesterday's counters are stale; the precheck must reset them instead of
	// rejecting the draw.
	used := zeroUserState()
	used.TotalDrawsToday = 5
	used.LastResetDate = "2026-05-09"

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(nil, constant.ErrDrawRecordNotFound)
	bed.policy.EXPECT().GetPolicyBundle(gomock.Any(), testCampaign).Return(bundle, nil)
	bed.states.EXPECT().FindUserState(gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(used, nil)
	bed.states.EXPECT().FindGlobalState(gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)
	bed.ledgers.EXPECT().Reserve(gomock.Any(), testUser, "PTS", int64(100), gomock.Any()).Return(nil, constant.ErrInsufficientFunds)

	// Stops at the reservation; the point of the test is that the quota
	// precheck let a stale-counter user through.
	_, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	assert.ErrorIs(t, err, constant.ErrInsufficientFunds)
}

func TestExecuteDrawInsufficientFunds(t *testing.T) {
	bed := newDrawTestBed(t)
	bundle := testBundle()

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(nil, constant.ErrDrawRecordNotFound)
	bed.policy.EXPECT().GetPolicyBundle(gomock.Any(), testCampaign).Return(bundle, nil)
	bed.states.EXPECT().FindUserState(gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(zeroUserState(), nil)
	bed.states.EXPECT().FindGlobalState(gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)
	bed.ledgers.EXPECT().Reserve(gomock.Any(), testUser, "PTS", int64(100), testIdemKey+constant.CostBusinessKeySuffix).Return(nil, constant.ErrInsufficientFunds)

	_, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	assert.ErrorIs(t, err, constant.ErrInsufficientFunds)
	assert.NotContains(t, err.Error(), "PTS")
}

func TestExecuteDrawCampaignOutsideWindow(t *testing.T) {
	bed := newDrawTestBed(t)
	bundle := testBundle()
	bundle.Campaign.EndAt = testNow.Add(-time.Minute)

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(nil, constant.ErrDrawRecordNotFound)
	bed.policy.EXPECT().GetPolicyBundle(gomock.Any(), testCampaign).Return(bundle, nil)

	_, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	assert.ErrorIs(t, err, constant.ErrCampaignUnavailable)
}

func TestExecuteDrawHardPityForcesAward(t *testing.T) {
	bed := newDrawTestBed(t)
	bundle := testBundle()

	pitied := zeroUserState()
	pitied.EmptyStreak = 10

	pitiedLocked := zeroUserState()
	pitiedLocked.EmptyStreak = 10

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(nil, constant.ErrDrawRecordNotFound)
	bed.policy.EXPECT().GetPolicyBundle(gomock.Any(), testCampaign).Return(bundle, nil)
	bed.states.EXPECT().FindUserState(gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(pitied, nil)
	bed.states.EXPECT().FindGlobalState(gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)
	bed.ledgers.EXPECT().Reserve(gomock.Any(), testUser, "PTS", int64(100), gomock.Any()).Return(&mmodel.Balance{}, nil)
	bed.locks.EXPECT().AcquireDrawLock(gomock.Any(), testUser, testCampaign, gomock.Any()).Return(func() {}, nil)

	bed.states.EXPECT().FindUserStateForUpdate(gomock.Any(), gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(pitiedLocked, nil)
	bed.prizes.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), "pz-high").Return(testPrize(bundle, "pz-high"), nil)
	bed.prizes.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), "pz-high").Return(true, nil)
	bed.ledgers.EXPECT().CommitReservation(gomock.Any(), gomock.Any(), testUser, "PTS", int64(100), gomock.Any()).Return(nil)
	bed.ledgers.EXPECT().Credit(gomock.Any(), gomock.Any(), testUser, "PTS", int64(5_000), gomock.Any()).Return(nil)

	var savedUser mmodel.UserCampaignState

	bed.states.EXPECT().SaveUserState(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, s *mmodel.UserCampaignState) error {
			savedUser = *s
			return nil
		})
	bed.states.EXPECT().FindGlobalStateForUpdate(gomock.Any(), gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)
	bed.states.EXPECT().SaveGlobalState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	var created mmodel.DrawRecord

	bed.draws.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, r *mmodel.DrawRecord) error {
			created = *r
			return nil
		})

	bed.expectFanOut()
	bed.ledgers.EXPECT().ListBalances(gomock.Any(), testUser).Return(nil, nil)

	result, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	require.NoError(t, err)
	bed.waitFanOut(t)

	assert.Equal(t, constant.OutcomeAwarded, result.Outcome)
	assert.Equal(t, lottery.PityHard, created.Snapshot.PityType)
	assert.Equal(t, int64(0), created.Snapshot.FinalWeights.Fallback)
	assert.Equal(t, 0, savedUser.EmptyStreak)
}

func TestExecuteDrawConcurrentDuplicateResolvesToReplay(t *testing.T) {
	bed := newDrawTestBed(t)
	bundle := testBundle()

	prizeID := "pz-low"
	winner := &mmodel.DrawRecord{
		ID:             "draw-winner",
		UserID:         testUser,
		CampaignID:     testCampaign,
		IdempotencyKey: testIdemKey,
		PrizeID:        &prizeID,
		PrizeValue:     200,
		Tier:           lottery.TierLow,
		Outcome:        constant.OutcomeAwarded,
		CostAssetCode:  "PTS",
		CostAmount:     100,
	}

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(nil, constant.ErrDrawRecordNotFound)
	bed.policy.EXPECT().GetPolicyBundle(gomock.Any(), testCampaign).Return(bundle, nil)
	bed.states.EXPECT().FindUserState(gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(zeroUserState(), nil)
	bed.states.EXPECT().FindGlobalState(gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)
	bed.ledgers.EXPECT().Reserve(gomock.Any(), testUser, "PTS", int64(100), gomock.Any()).Return(&mmodel.Balance{}, nil)
	bed.locks.EXPECT().AcquireDrawLock(gomock.Any(), testUser, testCampaign, gomock.Any()).Return(func() {}, nil)

	bed.states.EXPECT().FindUserStateForUpdate(gomock.Any(), gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(zeroUserState(), nil)
	bed.prizes.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), "pz-high").Return(testPrize(bundle, "pz-high"), nil)
	bed.prizes.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), "pz-high").Return(true, nil)
	bed.ledgers.EXPECT().CommitReservation(gomock.Any(), gomock.Any(), testUser, "PTS", int64(100), gomock.Any()).Return(nil)
	bed.ledgers.EXPECT().Credit(gomock.Any(), gomock.Any(), testUser, "PTS", int64(5_000), gomock.Any()).Return(nil)
	bed.states.EXPECT().SaveUserState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	bed.states.EXPECT().FindGlobalStateForUpdate(gomock.Any(), gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)
	bed.states.EXPECT().SaveGlobalState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	// The unique index fires: a concurrent submission with the same key
	// committed first. No release happens; the winner's commit consumed the
	// shared reservation.
	bed.draws.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(constant.ErrIdempotencyKeyAlreadyExists)
	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(winner, nil)
	bed.ledgers.EXPECT().ListBalances(gomock.Any(), testUser).Return(nil, nil)

	result, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	require.NoError(t, err)

	assert.True(t, result.Replayed)
	assert.Equal(t, "draw-winner", result.DecisionID)
}

func TestExecuteDrawStockRaceFallsBackToEmpty(t *testing.T) {
	bed := newDrawTestBed(t)
	bundle := testBundle()

	depleted := testPrize(bundle, "pz-high")
	depleted.RemainingStock = 0

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(nil, constant.ErrDrawRecordNotFound)
	bed.policy.EXPECT().GetPolicyBundle(gomock.Any(), testCampaign).Return(bundle, nil)
	bed.states.EXPECT().FindUserState(gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(zeroUserState(), nil)
	bed.states.EXPECT().FindGlobalState(gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)
	bed.ledgers.EXPECT().Reserve(gomock.Any(), testUser, "PTS", int64(100), gomock.Any()).Return(&mmodel.Balance{}, nil)
	bed.locks.EXPECT().AcquireDrawLock(gomock.Any(), testUser, testCampaign, gomock.Any()).Return(func() {}, nil)

	bed.states.EXPECT().FindUserStateForUpdate(gomock.Any(), gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(zeroUserState(), nil)

	// The planned prize sold out between sampling and commit, and so did the
	// rest of its tier. The draw settles on the fallback placeholder.
	bed.prizes.EXPECT().FindForUpdate(gomock.Any(), gomock.Any(), "pz-high").Return(depleted, nil)
	bed.prizes.EXPECT().FindAvailableByTierForUpdate(gomock.Any(), gomock.Any(), testCampaign, lottery.TierHigh).Return([]mmodel.Prize{}, nil)
	bed.prizes.EXPECT().FindAvailableByTierForUpdate(gomock.Any(), gomock.Any(), testCampaign, lottery.TierFallback).Return([]mmodel.Prize{*testPrize(bundle, "pz-none")}, nil)
	bed.prizes.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), "pz-none").Return(true, nil)
	bed.ledgers.EXPECT().CommitReservation(gomock.Any(), gomock.Any(), testUser, "PTS", int64(100), gomock.Any()).Return(nil)

	var savedUser mmodel.UserCampaignState

	bed.states.EXPECT().SaveUserState(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, s *mmodel.UserCampaignState) error {
			savedUser = *s
			return nil
		})
	bed.states.EXPECT().FindGlobalStateForUpdate(gomock.Any(), gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)

	var savedGlobal mmodel.CampaignGlobalState

	bed.states.EXPECT().SaveGlobalState(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, s *mmodel.CampaignGlobalState) error {
			savedGlobal = *s
			return nil
		})

	var created mmodel.DrawRecord

	bed.draws.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, r *mmodel.DrawRecord) error {
			created = *r
			return nil
		})

	bed.expectFanOut()
	bed.ledgers.EXPECT().ListBalances(gomock.Any(), testUser).Return(nil, nil)

	result, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	require.NoError(t, err)
	bed.waitFanOut(t)

	assert.Equal(t, constant.OutcomeEmpty, result.Outcome)
	assert.Nil(t, result.Prize)
	assert.True(t, created.Snapshot.StockFellBack)
	assert.Equal(t, lottery.TierFallback, created.Snapshot.FinalTier)
	assert.Equal(t, lottery.TierHigh, created.Snapshot.SampledTier)
	assert.Equal(t, 1, savedUser.EmptyStreak)
	assert.Equal(t, int64(1), savedGlobal.CumulativeEmpties)
	assert.Equal(t, int64(-100), savedGlobal.BudgetDebt)
}

func TestExecuteDrawLockTimeoutReleasesReservation(t *testing.T) {
	bed := newDrawTestBed(t)
	bundle := testBundle()

	bed.draws.EXPECT().FindByIdempotencyKey(gomock.Any(), testUser, testIdemKey).Return(nil, constant.ErrDrawRecordNotFound)
	bed.policy.EXPECT().GetPolicyBundle(gomock.Any(), testCampaign).Return(bundle, nil)
	bed.states.EXPECT().FindUserState(gomock.Any(), testUser, testCampaign, lottery.DefaultRingCapacity).Return(zeroUserState(), nil)
	bed.states.EXPECT().FindGlobalState(gomock.Any(), testCampaign).Return(zeroGlobalState(), nil)
	bed.ledgers.EXPECT().Reserve(gomock.Any(), testUser, "PTS", int64(100), testIdemKey+constant.CostBusinessKeySuffix).Return(&mmodel.Balance{}, nil)
	bed.locks.EXPECT().AcquireDrawLock(gomock.Any(), testUser, testCampaign, gomock.Any()).Return(nil, constant.ErrLockTimeout)
	bed.ledgers.EXPECT().Release(gomock.Any(), testUser, "PTS", int64(100), testIdemKey+constant.CostBusinessKeySuffix).Return(nil)

	_, err := bed.uc.ExecuteDraw(context.Background(), drawInput())
	assert.ErrorIs(t, err, constant.ErrLockTimeout)
}
