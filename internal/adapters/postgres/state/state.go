// Package state implements the StateStore: per-user per-campaign experience
// state and campaign-global counters. Both rows are mutated only inside the
// draw commit transaction, under FOR UPDATE.
package state

import (
	"time"

	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// UserStatePostgreSQLModel maps user_campaign_states. The tier history is a
// bounded ring stored as a compact comma-joined column.
type UserStatePostgreSQLModel struct {
	UserID          string
	CampaignID      string
	EmptyStreak     int
	HighStreak      int
	TotalDrawsToday int
	HighAwardsToday int
	MidAwardsToday  int
	LowAwardsToday  int
	LastResetDate   string
	LastTiers       string
	UpdatedAt       time.Time
}

func (m *UserStatePostgreSQLModel) ToEntity(ringCapacity int) *mmodel.UserCampaignState {
	return &mmodel.UserCampaignState{
		UserID:          m.UserID,
		CampaignID:      m.CampaignID,
		EmptyStreak:     m.EmptyStreak,
		HighStreak:      m.HighStreak,
		TotalDrawsToday: m.TotalDrawsToday,
		HighAwardsToday: m.HighAwardsToday,
		MidAwardsToday:  m.MidAwardsToday,
		LowAwardsToday:  m.LowAwardsToday,
		LastResetDate:   m.LastResetDate,
		LastTiers:       lottery.DecodeTierRing(m.LastTiers, ringCapacity),
		UpdatedAt:       m.UpdatedAt,
	}
}

func (m *UserStatePostgreSQLModel) FromEntity(state *mmodel.UserCampaignState) {
	m.UserID = state.UserID
	m.CampaignID = state.CampaignID
	m.EmptyStreak = state.EmptyStreak
	m.HighStreak = state.HighStreak
	m.TotalDrawsToday = state.TotalDrawsToday
	m.HighAwardsToday = state.HighAwardsToday
	m.MidAwardsToday = state.MidAwardsToday
	m.LowAwardsToday = state.LowAwardsToday
	m.LastResetDate = state.LastResetDate
	m.LastTiers = state.LastTiers.Encode()
	m.UpdatedAt = state.UpdatedAt
}

// GlobalStatePostgreSQLModel maps campaign_global_states.
type GlobalStatePostgreSQLModel struct {
	CampaignID        string
	CumulativeDraws   int64
	CumulativeEmpties int64
	InventoryDebt     int64
	BudgetDebt        int64
	WindowCost        int64
	WindowReward      int64
	WindowStartedAt   time.Time
	UpdatedAt         time.Time
}

func (m *GlobalStatePostgreSQLModel) ToEntity() *mmodel.CampaignGlobalState {
	return &mmodel.CampaignGlobalState{
		CampaignID:        m.CampaignID,
		CumulativeDraws:   m.CumulativeDraws,
		CumulativeEmpties: m.CumulativeEmpties,
		InventoryDebt:     m.InventoryDebt,
		BudgetDebt:        m.BudgetDebt,
		WindowCost:        m.WindowCost,
		WindowReward:      m.WindowReward,
		WindowStartedAt:   m.WindowStartedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
