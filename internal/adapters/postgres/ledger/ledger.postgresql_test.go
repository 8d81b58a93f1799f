package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feastly/draw-engine/pkg/constant"
)

func TestJournalDeltaOnlyCostAndRewardMoveValue(t *testing.T) {
	assert.Equal(t, int64(0), journalDelta(constant.BusinessTypeDrawCostReserve, 100))
	assert.Equal(t, int64(0), journalDelta(constant.BusinessTypeDrawCostRelease, 100))
	assert.Equal(t, int64(-100), journalDelta(constant.BusinessTypeDrawCost, 100))
	assert.Equal(t, int64(5000), journalDelta(constant.BusinessTypeDrawReward, 5000))
}

func TestJournalDeltaSumMatchesBalanceMovement(t *testing.T) {
	// A committed draw writes reserve, cost and reward rows; the balance
	// total moves by reward minus cost.
	committed := journalDelta(constant.BusinessTypeDrawCostReserve, 100) +
		journalDelta(constant.BusinessTypeDrawCost, 100) +
		journalDelta(constant.BusinessTypeDrawReward, 5000)
	assert.Equal(t, int64(4900), committed)

	// An abandoned draw writes reserve then release; the total is untouched.
	abandoned := journalDelta(constant.BusinessTypeDrawCostReserve, 100) +
		journalDelta(constant.BusinessTypeDrawCostRelease, 100)
	assert.Equal(t, int64(0), abandoned)
}
