// Package lottery implements the pure decision calculators of the draw
// engine: budget/pressure tier resolution, the pricing matrix, pity, luck
// debt, the post-selection guards and weighted prize sampling.
//
// Every calculator is a pure function of an immutable input and returns a new
// weight vector plus a StageTrace; none of them touches persistent state and
// none of them returns an error. Malformed input degrades deterministically
// and the degradation is flagged on the trace.
package lottery

import "fmt"

// Tier is the coarse prize class. Fallback is the empty / no-award class;
// awarding from it produces an "empty" outcome.
type Tier string

const (
	TierHigh     Tier = "high"
	TierMid      Tier = "mid"
	TierLow      Tier = "low"
	TierFallback Tier = "fallback"
)

// NonFallbackTiers in descending value order.
var NonFallbackTiers = []Tier{TierHigh, TierMid, TierLow}

// Tiers lists all tiers in descending value order, fallback last.
var Tiers = []Tier{TierHigh, TierMid, TierLow, TierFallback}

func (t Tier) Valid() bool {
	switch t {
	case TierHigh, TierMid, TierLow, TierFallback:
		return true
	}

	return false
}

func (t Tier) IsFallback() bool {
	return t == TierFallback
}

// BudgetTier discretises campaign over/under-spend. B0 is the most
// constrained tier: the campaign has spent furthest above plan.
type BudgetTier int8

const (
	B0 BudgetTier = iota
	B1
	B2
	B3
)

func (b BudgetTier) Valid() bool {
	return b >= B0 && b <= B3
}

func (b BudgetTier) String() string {
	if !b.Valid() {
		return fmt.Sprintf("B?(%d)", int8(b))
	}

	return fmt.Sprintf("B%d", int8(b))
}

// PressureTier discretises short-window net outflow. P2 is the highest
// pressure: the system is paying out too much.
type PressureTier int8

const (
	P0 PressureTier = iota
	P1
	P2
)

func (p PressureTier) Valid() bool {
	return p >= P0 && p <= P2
}

func (p PressureTier) String() string {
	if !p.Valid() {
		return fmt.Sprintf("P?(%d)", int8(p))
	}

	return fmt.Sprintf("P%d", int8(p))
}
