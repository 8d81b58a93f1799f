package lottery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPricing() PricingConfig {
	identity := TierMultipliers{High: MultiplierScale, Mid: MultiplierScale, Low: MultiplierScale, Fallback: MultiplierScale}
	constrained := TierMultipliers{Fallback: MultiplierScale}

	cfg := PricingConfig{
		Scale:                 DefaultWeightScale,
		BudgetThresholds:      [3]int64{-100_000, 0, 100_000},
		PressureThresholds:    [2]int64{0, 50_000},
		PressureWindowSeconds: 3600,
	}

	for b := range cfg.Matrix {
		for p := range cfg.Matrix[b] {
			if b == int(B0) {
				cfg.Matrix[b][p] = constrained
			} else {
				cfg.Matrix[b][p] = identity
			}
		}
	}

	return cfg
}

func baseWeights() WeightVector {
	return WeightVector{High: 50_000, Mid: 150_000, Low: 300_000, Fallback: 500_000}
}

func TestResolveBudgetTier(t *testing.T) {
	cfg := testPricing()

	tests := []struct {
		debt int64
		want BudgetTier
	}{
		{-200_000, B3},
		{-100_000, B3}, // closed above
		{-50_000, B2},
		{0, B2},
		{1, B1},
		{100_000, B1},
		{100_001, B0}, // catch-all
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveBudgetTier(tt.debt, cfg), "debt=%d", tt.debt)
	}
}

func TestResolvePressureTier(t *testing.T) {
	cfg := testPricing()

	// metric = reward - cost
	assert.Equal(t, P0, ResolvePressureTier(10_000, 5_000, cfg))
	assert.Equal(t, P0, ResolvePressureTier(10_000, 10_000, cfg))
	assert.Equal(t, P1, ResolvePressureTier(0, 50_000, cfg))
	assert.Equal(t, P2, ResolvePressureTier(0, 50_001, cfg))
}

func TestApplyTierMatrix_Identity(t *testing.T) {
	cfg := testPricing()

	out, trace := ApplyTierMatrix(baseWeights(), B3, P1, cfg)

	assert.Equal(t, baseWeights(), out)
	assert.False(t, trace.Degraded)
	assert.Equal(t, "B3", trace.Attrs["budget_tier"])
	assert.Equal(t, "P1", trace.Attrs["pressure_tier"])
}

func TestApplyTierMatrix_B0ZeroesNonFallback(t *testing.T) {
	cfg := testPricing()

	out, _ := ApplyTierMatrix(baseWeights(), B0, P1, cfg)

	assert.Zero(t, out.NonFallbackTotal())
	assert.Equal(t, cfg.Scale, out.Fallback)
}

func TestApplyTierMatrix_UnknownTiersDegradeToB0P1(t *testing.T) {
	cfg := testPricing()

	out, trace := ApplyTierMatrix(baseWeights(), BudgetTier(9), PressureTier(-1), cfg)

	assert.True(t, trace.Degraded)
	assert.Zero(t, out.NonFallbackTotal())
	assert.Equal(t, "B0", trace.Attrs["budget_tier"])
	assert.Equal(t, "P1", trace.Attrs["pressure_tier"])
}

func TestApplyTierMatrix_KeepsFallbackReachable(t *testing.T) {
	cfg := testPricing()

	// Fallback weight so small the multiplier rounds it to zero.
	w := WeightVector{High: 500_000, Mid: 300_000, Low: 200_000, Fallback: 0}
	out, _ := ApplyTierMatrix(w, B3, P0, cfg)

	assert.Positive(t, out.Fallback)
	assert.Equal(t, cfg.Scale, out.Total())
}

func testPity() PityConfig {
	return PityConfig{Thresholds: []PityThreshold{
		{Streak: 3, Multiplier: 15_000},
		{Streak: 6, Multiplier: 20_000},
		{Streak: 10, Hard: true},
	}}
}

func TestApplyPity_NoMatch(t *testing.T) {
	out, trace := ApplyPity(baseWeights(), 2, testPity())

	assert.Equal(t, baseWeights(), out)
	assert.Equal(t, PityNone, trace.Attrs["pity_type"])
}

func TestApplyPity_SoftBoost(t *testing.T) {
	out, trace := ApplyPity(baseWeights(), 3, testPity())

	assert.Equal(t, PitySoft, trace.Attrs["pity_type"])
	assert.Equal(t, "3", trace.Attrs["matched_streak"])
	assert.Equal(t, baseWeights().Total(), out.Total())
	assert.Greater(t, out.NonFallbackTotal(), baseWeights().NonFallbackTotal())
	assert.Less(t, out.Fallback, baseWeights().Fallback)
}

func TestApplyPity_PicksHighestMatchingThreshold(t *testing.T) {
	_, trace := ApplyPity(baseWeights(), 7, testPity())

	assert.Equal(t, "6", trace.Attrs["matched_streak"])
}

func TestApplyPity_HardForcesNonEmpty(t *testing.T) {
	out, trace := ApplyPity(baseWeights(), 10, testPity())

	assert.Equal(t, PityHard, trace.Attrs["pity_type"])
	assert.Zero(t, out.Fallback)
	assert.Equal(t, baseWeights().Total(), out.Total())
}

func TestApplyPity_HardWithoutNonFallbackWeightDegrades(t *testing.T) {
	w := WeightVector{Fallback: 1_000_000}

	out, trace := ApplyPity(w, 10, testPity())

	assert.True(t, trace.Degraded)
	assert.Equal(t, w, out)
}

// Increasing empty streak never decreases the probability mass on non-empty
// outcomes.
func TestApplyPity_Monotonicity(t *testing.T) {
	prev := int64(-1)
	for streak := 0; streak <= 12; streak++ {
		out, _ := ApplyPity(baseWeights(), streak, testPity())
		require.Positive(t, out.Total())

		// Non-empty mass scaled to a common denominator.
		mass := out.NonFallbackTotal() * DefaultWeightScale / out.Total()
		require.GreaterOrEqual(t, mass, prev, "streak=%d", streak)
		prev = mass
	}
}

func testLuck() LuckConfig {
	return LuckConfig{
		SampleThreshold:   100,
		ExpectedEmptyRate: decimal.NewFromFloat(0.5),
		BoostFactor:       decimal.NewFromInt(2),
		BoostCeiling:      20_000,
	}
}

func TestApplyLuckDebt_SampleInsufficient(t *testing.T) {
	out, trace := ApplyLuckDebt(baseWeights(), LuckStats{CumulativeDraws: 10, CumulativeEmpties: 9}, testLuck())

	assert.Equal(t, baseWeights(), out)
	assert.Equal(t, LuckDebtNone, trace.Attrs["debt_level"])
	assert.Equal(t, "sample_insufficient", trace.Attrs["reason"])
}

func TestApplyLuckDebt_NoDeviation(t *testing.T) {
	out, trace := ApplyLuckDebt(baseWeights(), LuckStats{CumulativeDraws: 1000, CumulativeEmpties: 400}, testLuck())

	assert.Equal(t, baseWeights(), out)
	assert.Equal(t, LuckDebtNone, trace.Attrs["debt_level"])
}

func TestApplyLuckDebt_BoostsOnPositiveDeviation(t *testing.T) {
	out, trace := ApplyLuckDebt(baseWeights(), LuckStats{CumulativeDraws: 1000, CumulativeEmpties: 600}, testLuck())

	assert.Equal(t, LuckDebtMedium, trace.Attrs["debt_level"])
	assert.Equal(t, "12000", trace.Attrs["boost"])
	assert.Greater(t, out.NonFallbackTotal(), baseWeights().NonFallbackTotal())
	assert.Equal(t, baseWeights().Total(), out.Total())
}

func TestApplyLuckDebt_BoostClampedToCeiling(t *testing.T) {
	cfg := testLuck()
	cfg.BoostFactor = decimal.NewFromInt(50)

	_, trace := ApplyLuckDebt(baseWeights(), LuckStats{CumulativeDraws: 1000, CumulativeEmpties: 600}, cfg)

	assert.Equal(t, "20000", trace.Attrs["boost"])
}

func TestApplyLuckDebt_Levels(t *testing.T) {
	cfg := testLuck()

	_, trace := ApplyLuckDebt(baseWeights(), LuckStats{CumulativeDraws: 1000, CumulativeEmpties: 520}, cfg)
	assert.Equal(t, LuckDebtLow, trace.Attrs["debt_level"])

	_, trace = ApplyLuckDebt(baseWeights(), LuckStats{CumulativeDraws: 1000, CumulativeEmpties: 700}, cfg)
	assert.Equal(t, LuckDebtHigh, trace.Attrs["debt_level"])
}
