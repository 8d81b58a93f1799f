package lottery

// Stage names recorded on traces, in pipeline order.
const (
	StageBudgetTier      = "budget_tier"
	StagePressureTier    = "pressure_tier"
	StageTierMatrix      = "tier_matrix"
	StagePity            = "pity"
	StageLuckDebt        = "luck_debt"
	StageAntiEmptyStreak = "anti_empty_streak"
	StageAntiHighStreak  = "anti_high_streak"
	StageSelection       = "selection"
)

// Pity types reported for audit.
const (
	PityNone = "none"
	PitySoft = "soft"
	PityHard = "hard"
)

// Luck-debt levels reported for audit.
const (
	LuckDebtNone   = "none"
	LuckDebtLow    = "low"
	LuckDebtMedium = "medium"
	LuckDebtHigh   = "high"
)

// StageTrace is one entry of the ordered decision trace persisted in the
// decision snapshot. Input/Output are the weight vectors around the stage;
// guard stages leave them equal and record their verdict in Attrs.
type StageTrace struct {
	Stage    string            `json:"stage" msgpack:"stage"`
	Input    WeightVector      `json:"input" msgpack:"input"`
	Output   WeightVector      `json:"output" msgpack:"output"`
	Degraded bool              `json:"degraded,omitempty" msgpack:"degraded"`
	Attrs    map[string]string `json:"attrs,omitempty" msgpack:"attrs"`
}

func newTrace(stage string, in, out WeightVector) StageTrace {
	return StageTrace{Stage: stage, Input: in, Output: out, Attrs: map[string]string{}}
}
