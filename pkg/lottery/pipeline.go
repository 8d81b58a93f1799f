package lottery

import "strconv"

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// ResolveInput is the immutable context the weight pipeline folds over. It is
// assembled by the orchestrator from policy and state reads; the pipeline
// itself never touches storage.
type ResolveInput struct {
	Base         WeightVector
	BudgetDebt   int64
	WindowCost   int64
	WindowReward int64
	EmptyStreak  int
	Stats        LuckStats
	Pricing      PricingConfig
	Pity         PityConfig
	Luck         LuckConfig
}

// Resolution is the pipeline output: the final sampling vector, the resolved
// tiers and the ordered stage traces for the decision snapshot.
type Resolution struct {
	Weights      WeightVector
	BudgetTier   BudgetTier
	PressureTier PressureTier
	Traces       []StageTrace
}

// ResolveWeights runs the tier-resolution stages in order: budget tier,
// pressure tier, matrix, pity, luck debt. Each stage consumes the prior
// stage's vector and contributes a trace; the post-selection guards run later,
// once the selector has picked a tier.
func ResolveWeights(in ResolveInput) Resolution {
	budgetTier := ResolveBudgetTier(in.BudgetDebt, in.Pricing)
	pressureTier := ResolvePressureTier(in.WindowCost, in.WindowReward, in.Pricing)

	traces := make([]StageTrace, 0, 5)

	budgetTrace := newTrace(StageBudgetTier, in.Base, in.Base)
	budgetTrace.Attrs["budget_debt"] = formatInt(in.BudgetDebt)
	budgetTrace.Attrs["budget_tier"] = budgetTier.String()
	traces = append(traces, budgetTrace)

	pressureTrace := newTrace(StagePressureTier, in.Base, in.Base)
	pressureTrace.Attrs["window_cost"] = formatInt(in.WindowCost)
	pressureTrace.Attrs["window_reward"] = formatInt(in.WindowReward)
	pressureTrace.Attrs["metric"] = formatInt(PressureMetric(in.WindowCost, in.WindowReward))
	pressureTrace.Attrs["pressure_tier"] = pressureTier.String()
	traces = append(traces, pressureTrace)

	weights, trace := ApplyTierMatrix(in.Base, budgetTier, pressureTier, in.Pricing)
	traces = append(traces, trace)

	weights, trace = ApplyPity(weights, in.EmptyStreak, in.Pity)
	traces = append(traces, trace)

	weights, trace = ApplyLuckDebt(weights, in.Stats, in.Luck)
	traces = append(traces, trace)

	return Resolution{
		Weights:      weights,
		BudgetTier:   budgetTier,
		PressureTier: pressureTier,
		Traces:       traces,
	}
}
