package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierRing_PushEvictsOldest(t *testing.T) {
	ring := NewTierRing(3)

	for _, tier := range []Tier{TierHigh, TierMid, TierLow, TierFallback} {
		ring = ring.Push(tier)
	}

	assert.Equal(t, 3, ring.Len())
	assert.Equal(t, []Tier{TierMid, TierLow, TierFallback}, ring.Tiers())
}

func TestTierRing_EncodeDecodeRoundTrip(t *testing.T) {
	ring := NewTierRing(4).Push(TierHigh).Push(TierFallback).Push(TierLow)

	decoded := DecodeTierRing(ring.Encode(), 4)

	assert.Equal(t, ring.Tiers(), decoded.Tiers())
}

func TestDecodeTierRing_DropsInvalidEntries(t *testing.T) {
	decoded := DecodeTierRing("high,banana,,low", 8)

	assert.Equal(t, []Tier{TierHigh, TierLow}, decoded.Tiers())
}

func TestDecodeTierRing_ReappliesCapacity(t *testing.T) {
	decoded := DecodeTierRing("high,mid,low,fallback", 2)

	assert.Equal(t, []Tier{TierLow, TierFallback}, decoded.Tiers())
}

func TestNewTierRing_DefaultCapacity(t *testing.T) {
	ring := NewTierRing(0)

	for i := 0; i < DefaultRingCapacity+5; i++ {
		ring = ring.Push(TierFallback)
	}

	assert.Equal(t, DefaultRingCapacity, ring.Len())
}
