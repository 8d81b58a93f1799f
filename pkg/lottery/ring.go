package lottery

import "strings"

// DefaultRingCapacity bounds the per-user tier history kept on state rows.
const DefaultRingCapacity = 16

// TierRing is a bounded ring of the most recent outcome tiers, oldest first.
// It replaces the unbounded JSON array the state rows previously carried and
// round-trips through a compact comma-joined text column.
type TierRing struct {
	capacity int
	tiers    []Tier
}

// NewTierRing returns an empty ring; non-positive capacities fall back to the
// default.
func NewTierRing(capacity int) TierRing {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}

	return TierRing{capacity: capacity}
}

// Push appends t, evicting the oldest entry when the ring is full.
func (r TierRing) Push(t Tier) TierRing {
	tiers := append(append([]Tier{}, r.tiers...), t)
	if len(tiers) > r.capacity {
		tiers = tiers[len(tiers)-r.capacity:]
	}

	r.tiers = tiers

	return r
}

// Tiers returns the entries oldest first.
func (r TierRing) Tiers() []Tier {
	return append([]Tier{}, r.tiers...)
}

func (r TierRing) Len() int {
	return len(r.tiers)
}

// Encode renders the ring for storage in a compact text column.
func (r TierRing) Encode() string {
	parts := make([]string, 0, len(r.tiers))
	for _, t := range r.tiers {
		parts = append(parts, string(t))
	}

	return strings.Join(parts, ",")
}

// DecodeTierRing parses a stored ring, dropping entries that are no longer
// valid tiers. The capacity bound is re-applied on decode, so shrinking K in
// config trims histories on their next write.
func DecodeTierRing(encoded string, capacity int) TierRing {
	ring := NewTierRing(capacity)
	if encoded == "" {
		return ring
	}

	for _, part := range strings.Split(encoded, ",") {
		t := Tier(strings.TrimSpace(part))
		if t.Valid() {
			ring = ring.Push(t)
		}
	}

	return ring
}
