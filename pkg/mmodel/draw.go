package mmodel

import (
	"time"

	"github.com/feastly/draw-engine/pkg/lottery"
)

// CreateDrawInput is the orchestrator's input: one logical draw attempt.
type CreateDrawInput struct {
	UserID         string `json:"userId" validate:"required,max=128"`
	CampaignID     string `json:"campaignId" validate:"required,max=128"`
	IdempotencyKey string `json:"idempotencyKey" validate:"required,max=64"`
}

// DecisionSnapshot is the ordered audit record persisted with every draw:
// inputs, per-stage outputs, final weights, RNG seed and the chosen prize.
// Replaying the seed through the same policy version reproduces the decision.
type DecisionSnapshot struct {
	PolicyVersion int64                 `json:"policyVersion" bson:"policy_version"`
	RNGSeed       int64                 `json:"rngSeed" bson:"rng_seed"`
	BudgetTier    string                `json:"budgetTier" bson:"budget_tier"`
	PressureTier  string                `json:"pressureTier" bson:"pressure_tier"`
	Stages        []lottery.StageTrace  `json:"stages" bson:"stages"`
	FinalWeights  lottery.WeightVector  `json:"finalWeights" bson:"final_weights"`
	SampledTier   lottery.Tier          `json:"sampledTier" bson:"sampled_tier"`
	FinalTier     lottery.Tier          `json:"finalTier" bson:"final_tier"`
	PityType      string                `json:"pityType" bson:"pity_type"`
	Forced        bool                  `json:"forced" bson:"forced"`
	StockFellBack bool                  `json:"stockFellBack" bson:"stock_fell_back"`
	PrizeID       string                `json:"prizeId,omitempty" bson:"prize_id,omitempty"`
	Outcome       string                `json:"outcome" bson:"outcome"`
}

// DrawRecord is the committed decision, written exactly once per
// (user, idempotency key).
type DrawRecord struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	CampaignID     string           `json:"campaignId"`
	IdempotencyKey string           `json:"idempotencyKey"`
	PrizeID        *string          `json:"prizeId,omitempty"`
	PrizeName      string           `json:"prizeName,omitempty"`
	PrizeValue     int64            `json:"prizeValue"`
	Tier           lottery.Tier     `json:"tier"`
	Outcome        string           `json:"outcome"`
	CostAssetCode  string           `json:"costAssetCode"`
	CostAmount     int64            `json:"costAmount"`
	Snapshot       DecisionSnapshot `json:"decisionSnapshot"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// DrawResult is the caller-facing outcome of a draw.
type DrawResult struct {
	Outcome       string           `json:"outcome"`
	Prize         *PrizeDescriptor `json:"prize,omitempty"`
	CostAssetCode string           `json:"costAssetCode"`
	CostAmount    int64            `json:"costAmount"`
	Balances      []Balance        `json:"balances"`
	DecisionID    string           `json:"decisionId"`
	Replayed      bool             `json:"replayed"`
}

// DrawCompletedEvent is the message published to the observability exchange
// after commit. Delivery is asynchronous and lossy by contract.
type DrawCompletedEvent struct {
	DecisionID     string           `json:"decisionId"`
	UserID         string           `json:"userId"`
	CampaignID     string           `json:"campaignId"`
	IdempotencyKey string           `json:"idempotencyKey"`
	Outcome        string           `json:"outcome"`
	Tier           lottery.Tier     `json:"tier"`
	PrizeID        string           `json:"prizeId,omitempty"`
	CostAmount     int64            `json:"costAmount"`
	Snapshot       DecisionSnapshot `json:"snapshot"`
	OccurredAt     time.Time        `json:"occurredAt"`
}
