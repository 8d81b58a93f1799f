package mmodel

import (
	"time"

	"github.com/feastly/draw-engine/pkg/lottery"
)

// LocalDateLayout is the storage form of the last-seen local date that makes
// daily resets idempotent.
const LocalDateLayout = "2006-01-02"

// LocalDate renders the campaign-local calendar date of an instant.
func LocalDate(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(LocalDateLayout)
}

// UserCampaignState is the per-(user, campaign) experience state. It is
// created on the first draw and updated on every draw, under the
// orchestrator's per-(user, campaign) lock.
type UserCampaignState struct {
	UserID          string           `json:"userId"`
	CampaignID      string           `json:"campaignId"`
	EmptyStreak     int              `json:"emptyStreak"`
	HighStreak      int              `json:"highStreak"`
	TotalDrawsToday int              `json:"totalDrawsToday"`
	HighAwardsToday int              `json:"highAwardsToday"`
	MidAwardsToday  int              `json:"midAwardsToday"`
	LowAwardsToday  int              `json:"lowAwardsToday"`
	LastResetDate   string           `json:"lastResetDate"`
	LastTiers       lottery.TierRing `json:"-"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// ResetIfNewDay zeroes the daily counters when the last-seen local date
// precedes today in the campaign timezone. Carrying the date on the row makes
// the reset idempotent under replays and crashes.
func (s *UserCampaignState) ResetIfNewDay(now time.Time, loc *time.Location) bool {
	today := LocalDate(now, loc)
	if s.LastResetDate == today {
		return false
	}

	s.TotalDrawsToday = 0
	s.HighAwardsToday = 0
	s.MidAwardsToday = 0
	s.LowAwardsToday = 0
	s.LastResetDate = today

	return true
}

// TierAwardsToday returns how many awards of a tier the user received today.
func (s *UserCampaignState) TierAwardsToday(t lottery.Tier) int {
	switch t {
	case lottery.TierHigh:
		return s.HighAwardsToday
	case lottery.TierMid:
		return s.MidAwardsToday
	case lottery.TierLow:
		return s.LowAwardsToday
	}

	return 0
}

// ApplyDrawDelta folds one committed draw outcome into the state: daily
// counters, streaks and the bounded tier history.
func (s *UserCampaignState) ApplyDrawDelta(finalTier lottery.Tier, now time.Time, loc *time.Location, ringCapacity int) {
	s.ResetIfNewDay(now, loc)

	s.TotalDrawsToday++

	switch finalTier {
	case lottery.TierFallback:
		s.EmptyStreak++
		s.HighStreak = 0
	case lottery.TierHigh:
		s.EmptyStreak = 0
		s.HighStreak++
		s.HighAwardsToday++
	case lottery.TierMid:
		s.EmptyStreak = 0
		s.HighStreak = 0
		s.MidAwardsToday++
	case lottery.TierLow:
		s.EmptyStreak = 0
		s.HighStreak = 0
		s.LowAwardsToday++
	}

	if s.LastTiers.Len() == 0 {
		s.LastTiers = lottery.NewTierRing(ringCapacity)
	}

	s.LastTiers = s.LastTiers.Push(finalTier)
	s.UpdatedAt = now
}

// CampaignGlobalState is the campaign-wide ledger of draw statistics, debts
// and the rolling pressure window.
type CampaignGlobalState struct {
	CampaignID        string    `json:"campaignId"`
	CumulativeDraws   int64     `json:"cumulativeDraws"`
	CumulativeEmpties int64     `json:"cumulativeEmpties"`
	InventoryDebt     int64     `json:"inventoryDebt"`
	BudgetDebt        int64     `json:"budgetDebt"`
	WindowCost        int64     `json:"windowCost"`
	WindowReward      int64     `json:"windowReward"`
	WindowStartedAt   time.Time `json:"windowStartedAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// RollWindow resets the pressure aggregates once the rolling window has
// elapsed. Idempotent: rolling an already-fresh window is a no-op.
func (s *CampaignGlobalState) RollWindow(now time.Time, window time.Duration) {
	if s.WindowStartedAt.IsZero() || now.Sub(s.WindowStartedAt) >= window {
		s.WindowCost = 0
		s.WindowReward = 0
		s.WindowStartedAt = now
	}
}

// ApplyDrawDelta folds one committed draw into the campaign-global state.
// Budget debt moves by the value paid out minus the cost taken in; inventory
// debt counts awards that only a guard (hard pity, anti-empty force) made
// happen.
func (s *CampaignGlobalState) ApplyDrawDelta(costAmount, rewardValue int64, empty, forced bool, window time.Duration, now time.Time) {
	s.RollWindow(now, window)

	s.CumulativeDraws++
	if empty {
		s.CumulativeEmpties++
	}

	s.BudgetDebt += rewardValue - costAmount
	if forced {
		s.InventoryDebt++
	}

	s.WindowCost += costAmount
	s.WindowReward += rewardValue
	s.UpdatedAt = now
}

// LuckStats projects the global state into the luck-debt calculator's input.
func (s CampaignGlobalState) LuckStats() lottery.LuckStats {
	return lottery.LuckStats{
		CumulativeDraws:   s.CumulativeDraws,
		CumulativeEmpties: s.CumulativeEmpties,
	}
}
