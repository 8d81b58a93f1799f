// Package campaign loads campaigns and their draw policy. The calculator
// configs (pricing matrix, pity, luck, guards) ride in JSONB columns on the
// campaign row so a policy version is always read atomically.
package campaign

import (
	"encoding/json"
	"time"

	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// CampaignPostgreSQLModel maps campaigns.
type CampaignPostgreSQLModel struct {
	ID              string
	Name            string
	Status          string
	CostAssetCode   string
	RewardAssetCode string
	CostPerDraw     int64
	DailyQuota      int
	Timezone        string
	WeightScale     int64
	PolicyVersion   int64
	PricingConfig   []byte
	PityConfig      []byte
	LuckConfig      []byte
	GuardConfig     []byte
	StartAt         time.Time
	EndAt           time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (m *CampaignPostgreSQLModel) ToEntity() mmodel.Campaign {
	return mmodel.Campaign{
		ID:              m.ID,
		Name:            m.Name,
		Status:          m.Status,
		CostAssetCode:   m.CostAssetCode,
		RewardAssetCode: m.RewardAssetCode,
		CostPerDraw:     m.CostPerDraw,
		DailyQuota:      m.DailyQuota,
		Timezone:        m.Timezone,
		WeightScale:     m.WeightScale,
		StartAt:         m.StartAt,
		EndAt:           m.EndAt,
	}
}

func (m *CampaignPostgreSQLModel) decodeConfigs(bundle *mmodel.PolicyBundle) error {
	if err := json.Unmarshal(m.PricingConfig, &bundle.Pricing); err != nil {
		return err
	}

	if err := json.Unmarshal(m.PityConfig, &bundle.Pity); err != nil {
		return err
	}

	if err := json.Unmarshal(m.LuckConfig, &bundle.Luck); err != nil {
		return err
	}

	return json.Unmarshal(m.GuardConfig, &bundle.Guard)
}

// TierRulePostgreSQLModel maps campaign_tier_rules.
type TierRulePostgreSQLModel struct {
	CampaignID      string
	Tier            string
	BaseWeight      int64
	DailyCapPerUser int
	HardStockFloor  int64
}

func (m *TierRulePostgreSQLModel) ToEntity() mmodel.TierRule {
	return mmodel.TierRule{
		CampaignID:      m.CampaignID,
		Tier:            lottery.Tier(m.Tier),
		BaseWeight:      m.BaseWeight,
		DailyCapPerUser: m.DailyCapPerUser,
		HardStockFloor:  m.HardStockFloor,
	}
}
