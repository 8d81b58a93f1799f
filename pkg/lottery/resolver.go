package lottery

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// ResolveBudgetTier maps signed campaign budget debt (positive = spent above
// plan) to a discrete budget tier. Larger debt resolves a lower, more
// constrained tier; debt above the top threshold lands on the B0 catch-all.
func ResolveBudgetTier(budgetDebt int64, cfg PricingConfig) BudgetTier {
	switch {
	case budgetDebt <= cfg.BudgetThresholds[0]:
		return B3
	case budgetDebt <= cfg.BudgetThresholds[1]:
		return B2
	case budgetDebt <= cfg.BudgetThresholds[2]:
		return B1
	default:
		return B0
	}
}

// PressureMetric is the short-window award pressure: reward value credited
// minus cost collected over the rolling window. Positive means the system is
// paying out more than it takes in.
func PressureMetric(windowCost, windowReward int64) int64 {
	outflow := decimal.NewFromInt(windowReward).Sub(decimal.NewFromInt(windowCost))

	return outflow.IntPart()
}

// ResolvePressureTier maps the window metric to a pressure tier with the same
// closed-above interval semantics as the budget resolver; P2 is the catch-all
// for the highest outflow.
func ResolvePressureTier(windowCost, windowReward int64, cfg PricingConfig) PressureTier {
	metric := PressureMetric(windowCost, windowReward)

	switch {
	case metric <= cfg.PressureThresholds[0]:
		return P0
	case metric <= cfg.PressureThresholds[1]:
		return P1
	default:
		return P2
	}
}

// ApplyTierMatrix looks up the (budget, pressure) multiplier cell, applies it
// elementwise to the base weights, drops tiers whose multiplier is zero and
// renormalises to the configured scale. Unknown input tiers degrade
// deterministically to (B0, P1).
func ApplyTierMatrix(base WeightVector, b BudgetTier, p PressureTier, cfg PricingConfig) (WeightVector, StageTrace) {
	trace := newTrace(StageTierMatrix, base, base)

	if !b.Valid() || !p.Valid() {
		trace.Degraded = true
		trace.Attrs["degraded_from"] = b.String() + "," + p.String()
		b, p = B0, P1
	}

	trace.Attrs["budget_tier"] = b.String()
	trace.Attrs["pressure_tier"] = p.String()

	cell := cfg.Matrix[int(b)][int(p)]

	out := WeightVector{}
	for _, t := range Tiers {
		out = out.With(t, base.Get(t)*cell.Get(t)/MultiplierScale)
	}

	scale := cfg.Scale
	if scale <= 0 {
		scale = DefaultWeightScale
	}

	out = out.NormalizeTo(scale)

	// Integer rounding must never make fallback unreachable: the multiplier
	// is positive by configuration, so fallback keeps at least one unit,
	// taken from the heaviest tier so the total stays on scale.
	if cell.Fallback > 0 && out.Fallback == 0 {
		heaviest := TierLow
		for _, t := range NonFallbackTiers {
			if out.Get(t) > out.Get(heaviest) {
				heaviest = t
			}
		}

		if out.Get(heaviest) > 0 {
			out = out.With(heaviest, out.Get(heaviest)-1)
		}

		out.Fallback = 1
	}

	trace.Output = out

	return out, trace
}

// ApplyPity selects the highest configured threshold whose streak does not
// exceed the empty streak. A soft match multiplies the non-fallback weights;
// the hard match zeroes fallback, forcing a non-empty outcome. No match is a
// pass-through.
func ApplyPity(w WeightVector, emptyStreak int, cfg PityConfig) (WeightVector, StageTrace) {
	trace := newTrace(StagePity, w, w)
	trace.Attrs["pity_type"] = PityNone
	trace.Attrs["empty_streak"] = strconv.Itoa(emptyStreak)

	matched := -1
	for i, th := range cfg.Thresholds {
		if th.Streak <= emptyStreak {
			matched = i
		}
	}

	if matched < 0 {
		return w, trace
	}

	th := cfg.Thresholds[matched]
	trace.Attrs["matched_streak"] = strconv.Itoa(th.Streak)

	out := w
	if th.Hard {
		trace.Attrs["pity_type"] = PityHard

		if w.NonFallbackTotal() == 0 {
			// Nothing to force onto; degrade to pass-through rather
			// than emit an unsampleable vector.
			trace.Degraded = true
			trace.Attrs["degraded_reason"] = "no_non_fallback_weight"

			return w, trace
		}

		out.Fallback = 0
	} else {
		trace.Attrs["pity_type"] = PitySoft
		out = out.MultiplyNonFallback(th.Multiplier)
	}

	out = out.NormalizeTo(w.Total())
	trace.Output = out

	return out, trace
}

// LuckStats is the campaign-global sample the luck-debt correction reads.
type LuckStats struct {
	CumulativeDraws   int64
	CumulativeEmpties int64
}

// ApplyLuckDebt compares the historical empty rate against the configured
// expectation and boosts non-fallback weights proportionally to positive
// deviation, clamped to the configured ceiling. Insufficient sample or
// non-positive deviation is a pass-through.
func ApplyLuckDebt(w WeightVector, stats LuckStats, cfg LuckConfig) (WeightVector, StageTrace) {
	trace := newTrace(StageLuckDebt, w, w)
	trace.Attrs["debt_level"] = LuckDebtNone

	if stats.CumulativeDraws < cfg.SampleThreshold || stats.CumulativeDraws == 0 {
		trace.Attrs["reason"] = "sample_insufficient"

		return w, trace
	}

	rate := decimal.NewFromInt(stats.CumulativeEmpties).Div(decimal.NewFromInt(stats.CumulativeDraws))
	deviation := rate.Sub(cfg.ExpectedEmptyRate)

	trace.Attrs["historical_empty_rate"] = rate.StringFixed(6)
	trace.Attrs["deviation"] = deviation.StringFixed(6)

	if deviation.LessThanOrEqual(decimal.Zero) {
		return w, trace
	}

	trace.Attrs["debt_level"] = luckDebtLevel(deviation)

	boost := decimal.NewFromInt(MultiplierScale).
		Add(deviation.Mul(cfg.BoostFactor).Mul(decimal.NewFromInt(MultiplierScale))).
		IntPart()
	if boost > cfg.BoostCeiling {
		boost = cfg.BoostCeiling
	}

	trace.Attrs["boost"] = strconv.FormatInt(boost, 10)

	out := w.MultiplyNonFallback(boost).NormalizeTo(w.Total())
	trace.Output = out

	return out, trace
}

func luckDebtLevel(deviation decimal.Decimal) string {
	switch {
	case deviation.LessThan(decimal.NewFromFloat(0.05)):
		return LuckDebtLow
	case deviation.LessThan(decimal.NewFromFloat(0.15)):
		return LuckDebtMedium
	default:
		return LuckDebtHigh
	}
}
