// Package prize implements the prize catalogue and its contested stock.
package prize

import (
	"time"

	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// PrizePostgreSQLModel maps prizes.
type PrizePostgreSQLModel struct {
	ID             string
	CampaignID     string
	Tier           string
	Name           string
	BaseWeight     int64
	Value          int64
	InitialStock   int64
	RemainingStock int64
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (m *PrizePostgreSQLModel) ToEntity() *mmodel.Prize {
	return &mmodel.Prize{
		ID:             m.ID,
		CampaignID:     m.CampaignID,
		Tier:           lottery.Tier(m.Tier),
		Name:           m.Name,
		BaseWeight:     m.BaseWeight,
		Value:          m.Value,
		InitialStock:   m.InitialStock,
		RemainingStock: m.RemainingStock,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
