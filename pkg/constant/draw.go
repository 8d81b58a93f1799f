package constant

const (
	// IdempotencyHeader carries the caller-supplied idempotency key, one per
	// logical draw attempt. Retries must resend the same value.
	IdempotencyHeader = "X-Idempotency"

	// MaxIdempotencyKeyLength bounds the opaque idempotency key.
	MaxIdempotencyKeyLength = 64

	// Business types stamped on asset transactions. The pair
	// (business_type, business_key) is unique, which makes every ledger
	// operation replay-safe.
	BusinessTypeDrawCost        = "draw_cost"
	BusinessTypeDrawCostReserve = "draw_cost_reserve"
	BusinessTypeDrawCostRelease = "draw_cost_release"
	BusinessTypeDrawReward      = "draw_reward"

	// Suffixes appended to the idempotency key to derive ledger business keys.
	CostBusinessKeySuffix   = "::cost"
	RewardBusinessKeySuffix = "::reward"

	// Draw outcomes.
	OutcomeAwarded = "awarded"
	OutcomeEmpty   = "empty"

	// Campaign statuses.
	CampaignStatusDraft  = "draft"
	CampaignStatusActive = "active"
	CampaignStatusPaused = "paused"
	CampaignStatusEnded  = "ended"

	// Prize statuses.
	PrizeStatusActive   = "active"
	PrizeStatusDisabled = "disabled"
)
