package lottery

// PrizeWeight is one candidate within a tier for weighted sampling.
type PrizeWeight struct {
	ID     string
	Weight int64
}

// SampleTier picks a tier by weighted sampling over the vector. A vector with
// no positive weight resolves to fallback, the always-reachable class.
func SampleTier(w WeightVector, rng RNG) Tier {
	total := w.Total()
	if total <= 0 {
		return TierFallback
	}

	r := rng.Int63n(total)
	for _, t := range Tiers {
		weight := w.Get(t)
		if weight <= 0 {
			continue
		}

		if r < weight {
			return t
		}

		r -= weight
	}

	return TierFallback
}

// SamplePrize picks one prize by weighted sampling over per-prize weights.
// Zero-weight prizes are unreachable; an empty or all-zero candidate list
// reports ok=false, which the orchestrator treats as tier depletion.
func SamplePrize(candidates []PrizeWeight, rng RNG) (string, bool) {
	var total int64
	for _, c := range candidates {
		if c.Weight > 0 {
			total += c.Weight
		}
	}

	if total <= 0 {
		return "", false
	}

	r := rng.Int63n(total)
	for _, c := range candidates {
		if c.Weight <= 0 {
			continue
		}

		if r < c.Weight {
			return c.ID, true
		}

		r -= c.Weight
	}

	return "", false
}
