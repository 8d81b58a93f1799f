package mmodel

import (
	"time"

	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/lottery"
)

// Prize is one awardable row of a campaign's catalogue. Fallback-tier prizes
// are the consolation placeholders; awarding one records an empty outcome and
// credits nothing when their value is zero.
type Prize struct {
	ID             string       `json:"id" msgpack:"id"`
	CampaignID     string       `json:"campaignId" msgpack:"campaignId"`
	Tier           lottery.Tier `json:"tier" msgpack:"tier"`
	Name           string       `json:"name" msgpack:"name"`
	BaseWeight     int64        `json:"baseWeight" msgpack:"baseWeight"`
	Value          int64        `json:"value" msgpack:"value"`
	InitialStock   int64        `json:"initialStock" msgpack:"initialStock"`
	RemainingStock int64        `json:"remainingStock" msgpack:"remainingStock"`
	Status         string       `json:"status" msgpack:"status"`
	CreatedAt      time.Time    `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt" msgpack:"updatedAt"`
}

// Awardable reports whether the prize can be handed out without breaching its
// tier's hard stock floor.
func (p Prize) Awardable(hardStockFloor int64) bool {
	return p.Status == constant.PrizeStatusActive && p.RemainingStock > hardStockFloor
}

// PrizeDescriptor is the prize shape returned to callers on an awarded draw.
type PrizeDescriptor struct {
	ID    string       `json:"id"`
	Tier  lottery.Tier `json:"tier"`
	Name  string       `json:"name,omitempty"`
	Value int64        `json:"value"`
}
