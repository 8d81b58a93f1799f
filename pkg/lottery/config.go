package lottery

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TierMultipliers is one cell of the pricing matrix: fixed-point multipliers
// (denominator MultiplierScale) applied elementwise to the base tier weights.
type TierMultipliers struct {
	High     int64 `json:"high" msgpack:"high"`
	Mid      int64 `json:"mid" msgpack:"mid"`
	Low      int64 `json:"low" msgpack:"low"`
	Fallback int64 `json:"fallback" msgpack:"fallback"`
}

func (m TierMultipliers) Get(t Tier) int64 {
	switch t {
	case TierHigh:
		return m.High
	case TierMid:
		return m.Mid
	case TierLow:
		return m.Low
	case TierFallback:
		return m.Fallback
	}

	return 0
}

// PricingConfig is the closed representation of a campaign's two-dimensional
// pricing/availability matrix and the thresholds that index into it.
type PricingConfig struct {
	// Scale the final weight vector is renormalised to.
	Scale int64 `json:"scale" msgpack:"scale"`

	// BudgetThresholds are closed-above interval bounds on budget debt,
	// ascending. debt <= [0] resolves B3, <= [1] B2, <= [2] B1; anything
	// above the top threshold is the B0 catch-all.
	BudgetThresholds [3]int64 `json:"budgetThresholds" msgpack:"budgetThresholds"`

	// PressureThresholds are closed-above interval bounds on the rolling
	// window net-outflow metric, ascending: metric <= [0] resolves P0,
	// <= [1] P1, above is P2.
	PressureThresholds [2]int64 `json:"pressureThresholds" msgpack:"pressureThresholds"`

	// PressureWindowSeconds is the length of the rolling window the
	// net-outflow aggregates cover.
	PressureWindowSeconds int64 `json:"pressureWindowSeconds" msgpack:"pressureWindowSeconds"`

	// Matrix is indexed [budget tier][pressure tier], B0..B3 x P0..P2.
	Matrix [4][3]TierMultipliers `json:"matrix" msgpack:"matrix"`
}

// Validate rejects malformed pricing config. The loader turns any returned
// error into ConfigurationInvalid before a draw ever sees the config.
func (c PricingConfig) Validate() error {
	if c.Scale <= 0 {
		return fmt.Errorf("pricing scale must be positive, got %d", c.Scale)
	}

	for i := 1; i < len(c.BudgetThresholds); i++ {
		if c.BudgetThresholds[i] < c.BudgetThresholds[i-1] {
			return fmt.Errorf("budget thresholds must be ascending: %v", c.BudgetThresholds)
		}
	}

	if c.PressureThresholds[1] < c.PressureThresholds[0] {
		return fmt.Errorf("pressure thresholds must be ascending: %v", c.PressureThresholds)
	}

	if c.PressureWindowSeconds <= 0 {
		return fmt.Errorf("pressure window must be positive, got %ds", c.PressureWindowSeconds)
	}

	for b := range c.Matrix {
		for p := range c.Matrix[b] {
			cell := c.Matrix[b][p]

			for _, t := range Tiers {
				if cell.Get(t) < 0 {
					return fmt.Errorf("matrix cell (B%d,P%d) has negative multiplier for tier %s", b, p, t)
				}
			}

			// Fallback must always stay reachable.
			if cell.Fallback == 0 {
				return fmt.Errorf("matrix cell (B%d,P%d) zeroes the fallback tier", b, p)
			}

			// The B0 row is fully constrained: no non-fallback awards.
			if b == int(B0) && (cell.High != 0 || cell.Mid != 0 || cell.Low != 0) {
				return fmt.Errorf("matrix cell (B0,P%d) must zero all non-fallback multipliers", p)
			}
		}
	}

	return nil
}

// PityThreshold maps an empty streak to a non-fallback boost. The last
// configured entry is the hard pity: a forced non-empty outcome.
type PityThreshold struct {
	Streak     int   `json:"streak" msgpack:"streak"`
	Multiplier int64 `json:"multiplier" msgpack:"multiplier"`
	Hard       bool  `json:"hard" msgpack:"hard"`
}

// PityConfig holds pity thresholds ordered by streak, strictly increasing.
type PityConfig struct {
	Thresholds []PityThreshold `json:"thresholds" msgpack:"thresholds"`
}

func (c PityConfig) Validate() error {
	if len(c.Thresholds) == 0 {
		return nil
	}

	for i, th := range c.Thresholds {
		if th.Streak <= 0 {
			return fmt.Errorf("pity threshold %d has non-positive streak %d", i, th.Streak)
		}

		if i > 0 && th.Streak <= c.Thresholds[i-1].Streak {
			return fmt.Errorf("pity streaks must be strictly increasing at index %d", i)
		}

		if !th.Hard && th.Multiplier <= 0 {
			return fmt.Errorf("pity threshold %d has non-positive multiplier %d", i, th.Multiplier)
		}

		if th.Hard && i != len(c.Thresholds)-1 {
			return fmt.Errorf("only the last pity threshold may be hard, found hard at index %d", i)
		}
	}

	if !c.Thresholds[len(c.Thresholds)-1].Hard {
		return fmt.Errorf("the last pity threshold must be the hard pity")
	}

	return nil
}

// LuckConfig parametrises the campaign-global luck-debt correction.
type LuckConfig struct {
	// SampleThreshold is the minimum cumulative draw count before the
	// historical empty rate is considered statistically usable.
	SampleThreshold int64 `json:"sampleThreshold" msgpack:"sampleThreshold"`

	// ExpectedEmptyRate is the designed long-run empty rate in [0,1].
	ExpectedEmptyRate decimal.Decimal `json:"expectedEmptyRate" msgpack:"-"`

	// BoostFactor converts positive deviation into a boost multiplier:
	// boost = 1 + deviation*BoostFactor, expressed against MultiplierScale.
	BoostFactor decimal.Decimal `json:"boostFactor" msgpack:"-"`

	// BoostCeiling clamps the boost multiplier (fixed point,
	// MultiplierScale denominator).
	BoostCeiling int64 `json:"boostCeiling" msgpack:"boostCeiling"`

	// Msgpack cannot round-trip decimal.Decimal directly; the string forms
	// below are what the policy cache stores.
	ExpectedEmptyRateStr string `json:"-" msgpack:"expectedEmptyRate"`
	BoostFactorStr       string `json:"-" msgpack:"boostFactor"`
}

func (c LuckConfig) Validate() error {
	if c.SampleThreshold < 0 {
		return fmt.Errorf("luck sample threshold must be non-negative, got %d", c.SampleThreshold)
	}

	if c.ExpectedEmptyRate.IsNegative() || c.ExpectedEmptyRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("expected empty rate must be within [0,1], got %s", c.ExpectedEmptyRate)
	}

	if c.BoostFactor.IsNegative() {
		return fmt.Errorf("luck boost factor must be non-negative, got %s", c.BoostFactor)
	}

	if c.BoostCeiling < MultiplierScale {
		return fmt.Errorf("luck boost ceiling must be at least identity (%d), got %d", MultiplierScale, c.BoostCeiling)
	}

	return nil
}

// GuardConfig parametrises the post-selection guards.
type GuardConfig struct {
	// ForceNonEmptyThreshold is the empty streak at which a fallback pick
	// is redirected to an available non-fallback tier.
	ForceNonEmptyThreshold int `json:"forceNonEmptyThreshold" msgpack:"forceNonEmptyThreshold"`

	// HighStreakCap is the maximum run of consecutive high-tier awards.
	HighStreakCap int `json:"highStreakCap" msgpack:"highStreakCap"`

	// ForceBudgetCeiling bounds how far budget debt may already be before a
	// forced award is allowed to consume more value.
	ForceBudgetCeiling int64 `json:"forceBudgetCeiling" msgpack:"forceBudgetCeiling"`
}

func (c GuardConfig) Validate() error {
	if c.ForceNonEmptyThreshold < 0 {
		return fmt.Errorf("force non-empty threshold must be non-negative, got %d", c.ForceNonEmptyThreshold)
	}

	if c.HighStreakCap <= 0 {
		return fmt.Errorf("high streak cap must be positive, got %d", c.HighStreakCap)
	}

	return nil
}
