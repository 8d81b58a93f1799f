package lottery

// MultiplierScale is the fixed-point denominator for all multipliers: a
// multiplier of 10000 is identity, 15000 is a 1.5x boost, 0 removes the tier.
const MultiplierScale int64 = 10_000

// DefaultWeightScale is the canonical sum the engine renormalises weight
// vectors to when a campaign does not configure its own scale.
const DefaultWeightScale int64 = 1_000_000

// WeightVector holds the integer sampling weight of each tier. The zero value
// is an empty vector; a vector with Total()==0 cannot be sampled.
type WeightVector struct {
	High     int64 `json:"high" msgpack:"high"`
	Mid      int64 `json:"mid" msgpack:"mid"`
	Low      int64 `json:"low" msgpack:"low"`
	Fallback int64 `json:"fallback" msgpack:"fallback"`
}

func (w WeightVector) Get(t Tier) int64 {
	switch t {
	case TierHigh:
		return w.High
	case TierMid:
		return w.Mid
	case TierLow:
		return w.Low
	case TierFallback:
		return w.Fallback
	}

	return 0
}

// With returns a copy of w with tier t set to v.
func (w WeightVector) With(t Tier, v int64) WeightVector {
	switch t {
	case TierHigh:
		w.High = v
	case TierMid:
		w.Mid = v
	case TierLow:
		w.Low = v
	case TierFallback:
		w.Fallback = v
	}

	return w
}

func (w WeightVector) Total() int64 {
	return w.High + w.Mid + w.Low + w.Fallback
}

// NonFallbackTotal is the combined weight of the awarding tiers.
func (w WeightVector) NonFallbackTotal() int64 {
	return w.High + w.Mid + w.Low
}

// MultiplyNonFallback scales the non-fallback weights by mult/MultiplierScale,
// leaving fallback untouched. Negative multipliers clamp to zero.
func (w WeightVector) MultiplyNonFallback(mult int64) WeightVector {
	if mult < 0 {
		mult = 0
	}

	w.High = w.High * mult / MultiplierScale
	w.Mid = w.Mid * mult / MultiplierScale
	w.Low = w.Low * mult / MultiplierScale

	return w
}

// NormalizeTo proportionally rescales w so its total equals scale. Integer
// rounding residue lands on the largest component so the invariant
// Total()==scale holds exactly. A zero vector is returned unchanged.
func (w WeightVector) NormalizeTo(scale int64) WeightVector {
	total := w.Total()
	if total <= 0 || scale <= 0 {
		return w
	}

	out := WeightVector{
		High:     w.High * scale / total,
		Mid:      w.Mid * scale / total,
		Low:      w.Low * scale / total,
		Fallback: w.Fallback * scale / total,
	}

	residue := scale - out.Total()
	if residue != 0 {
		largest := TierFallback
		for _, t := range Tiers {
			if out.Get(t) > out.Get(largest) {
				largest = t
			}
		}

		out = out.With(largest, out.Get(largest)+residue)
	}

	return out
}
