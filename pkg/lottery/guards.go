package lottery

import "strconv"

// TierAvailability summarises, for one tier, what the guards need to know
// about awarding from it right now.
type TierAvailability struct {
	// HasStock is true when at least one active prize in the tier has
	// remaining stock above its hard floor.
	HasStock bool

	// CapRemaining is the user's remaining daily awards for the tier; a
	// negative value means the tier is uncapped.
	CapRemaining int

	// MinPrizeValue is the cheapest awardable prize value in the tier,
	// used against the effective budget when forcing an award.
	MinPrizeValue int64
}

func (a TierAvailability) allows(effectiveBudget int64) bool {
	if !a.HasStock {
		return false
	}

	if a.CapRemaining == 0 {
		return false
	}

	return a.MinPrizeValue <= effectiveBudget
}

// ApplyAntiEmptyStreak is the post-selection guard that redirects a fallback
// pick to a non-fallback tier once the empty streak reaches the force
// threshold. Preference order is low, mid, high, each subject to its daily
// cap and the effective budget. When no tier qualifies the fallback pick
// stands and the trace records forced=false with the reason.
func ApplyAntiEmptyStreak(selected Tier, emptyStreak int, avail map[Tier]TierAvailability, effectiveBudget int64, cfg GuardConfig) (Tier, StageTrace) {
	trace := StageTrace{Stage: StageAntiEmptyStreak, Attrs: map[string]string{
		"selected":     string(selected),
		"forced":       "false",
		"empty_streak": strconv.Itoa(emptyStreak),
	}}

	if !selected.IsFallback() {
		return selected, trace
	}

	if cfg.ForceNonEmptyThreshold <= 0 || emptyStreak < cfg.ForceNonEmptyThreshold {
		return selected, trace
	}

	for _, t := range []Tier{TierLow, TierMid, TierHigh} {
		if avail[t].allows(effectiveBudget) {
			trace.Attrs["forced"] = "true"
			trace.Attrs["forced_tier"] = string(t)

			return t, trace
		}
	}

	trace.Attrs["reason"] = "no_available"

	return selected, trace
}

// ApplyAntiHighStreak downgrades a high-tier pick one step once the user's
// consecutive high-award streak reaches the cap. Mid is never downgraded
// further.
func ApplyAntiHighStreak(selected Tier, highStreak int, cfg GuardConfig) (Tier, StageTrace) {
	trace := StageTrace{Stage: StageAntiHighStreak, Attrs: map[string]string{
		"selected":    string(selected),
		"tier_capped": "false",
		"high_streak": strconv.Itoa(highStreak),
	}}

	if selected != TierHigh || cfg.HighStreakCap <= 0 || highStreak < cfg.HighStreakCap {
		return selected, trace
	}

	trace.Attrs["tier_capped"] = "true"
	trace.Attrs["original_tier"] = string(TierHigh)

	return TierMid, trace
}
