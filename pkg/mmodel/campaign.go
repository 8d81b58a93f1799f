// Package mmodel holds the domain models shared between services, adapters
// and the HTTP boundary.
package mmodel

import (
	"time"

	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/lottery"
)

// Campaign is the engine's read-only view of a lottery campaign. Authoring
// happens in the admin subsystem; the engine only ever loads it through the
// policy store.
type Campaign struct {
	ID              string    `json:"id" msgpack:"id"`
	Name            string    `json:"name" msgpack:"name"`
	Status          string    `json:"status" msgpack:"status"`
	CostAssetCode   string    `json:"costAssetCode" msgpack:"costAssetCode"`
	RewardAssetCode string    `json:"rewardAssetCode" msgpack:"rewardAssetCode"`
	CostPerDraw     int64     `json:"costPerDraw" msgpack:"costPerDraw"`
	DailyQuota      int       `json:"dailyQuota" msgpack:"dailyQuota"`
	Timezone        string    `json:"timezone" msgpack:"timezone"`
	WeightScale     int64     `json:"weightScale" msgpack:"weightScale"`
	StartAt         time.Time `json:"startAt" msgpack:"startAt"`
	EndAt           time.Time `json:"endAt" msgpack:"endAt"`
}

// IsDrawable reports whether the campaign accepts draws at the given instant.
func (c Campaign) IsDrawable(now time.Time) bool {
	if c.Status != constant.CampaignStatusActive {
		return false
	}

	return !now.Before(c.StartAt) && now.Before(c.EndAt)
}

// Location resolves the campaign timezone, falling back to UTC so a bad
// timezone never blocks draws.
func (c Campaign) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		return time.UTC
	}

	return loc
}

// TierRule is the per-tier configuration of a campaign.
type TierRule struct {
	CampaignID      string       `json:"campaignId" msgpack:"campaignId"`
	Tier            lottery.Tier `json:"tier" msgpack:"tier"`
	BaseWeight      int64        `json:"baseWeight" msgpack:"baseWeight"`
	DailyCapPerUser int          `json:"dailyCapPerUser" msgpack:"dailyCapPerUser"`
	HardStockFloor  int64        `json:"hardStockFloor" msgpack:"hardStockFloor"`
}

// PolicyBundle is the immutable policy snapshot a draw executes against:
// campaign, tier rules, prize catalogue and calculator configs, stamped with
// a monotonic version from the authoring side.
type PolicyBundle struct {
	Version  int64                 `json:"version" msgpack:"version"`
	Campaign Campaign              `json:"campaign" msgpack:"campaign"`
	Rules    []TierRule            `json:"rules" msgpack:"rules"`
	Prizes   []Prize               `json:"prizes" msgpack:"prizes"`
	Pricing  lottery.PricingConfig `json:"pricing" msgpack:"pricing"`
	Pity     lottery.PityConfig    `json:"pity" msgpack:"pity"`
	Luck     lottery.LuckConfig    `json:"luck" msgpack:"luck"`
	Guard    lottery.GuardConfig   `json:"guard" msgpack:"guard"`
}

// BaseWeights assembles the tier weight vector from the tier rules.
func (b PolicyBundle) BaseWeights() lottery.WeightVector {
	w := lottery.WeightVector{}
	for _, rule := range b.Rules {
		w = w.With(rule.Tier, rule.BaseWeight)
	}

	return w
}

// Rule returns the rule for a tier; the zero rule (uncapped, zero floor)
// applies when a tier has no explicit row.
func (b PolicyBundle) Rule(t lottery.Tier) TierRule {
	for _, rule := range b.Rules {
		if rule.Tier == t {
			return rule
		}
	}

	return TierRule{CampaignID: b.Campaign.ID, Tier: t, DailyCapPerUser: -1}
}
