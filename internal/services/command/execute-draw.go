package command

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/feastly/draw-engine/internal/adapters/postgres"
	"github.com/feastly/draw-engine/pkg"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/lottery"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// drawPlan is the decision computed outside the commit transaction: resolved
// weights, sampled tier after guards and the tentative prize. Everything in
// it is re-verified under locks before money or stock moves.
type drawPlan struct {
	bundle      *mmodel.PolicyBundle
	rng         lottery.RNG
	seed        int64
	resolution  lottery.Resolution
	guardTraces []lottery.StageTrace
	sampledTier lottery.Tier
	finalTier   lottery.Tier
	forced      bool
	pityType    string
	prizeID     string
}

// ExecuteDraw runs one logical draw attempt end to end: replay detection,
// policy resolution, cost reservation, weight resolution and sampling, and
// the serialisable commit that settles stock, ledger, state and the draw
// record atomically. Retrying with the same idempotency key returns the
// stored result.
func (uc *UseCase) ExecuteDraw(ctx context.Context, input *mmodel.CreateDrawInput) (*mmodel.DrawResult, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.execute_draw")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.user_id", input.UserID),
		attribute.String("app.request.campaign_id", input.CampaignID),
	)

	now := uc.now()

	stored, err := uc.DrawRepo.FindByIdempotencyKey(ctx, input.UserID, input.IdempotencyKey)
	if err == nil {
		logger.Infof("draw replayed for user %s key %s", input.UserID, input.IdempotencyKey)

		return uc.replayResult(ctx, stored)
	}

	if !errors.Is(err, constant.ErrDrawRecordNotFound) {
		return nil, err
	}

	bundle, err := uc.Policy.GetPolicyBundle(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}

	if !bundle.Campaign.IsDrawable(now) {
		return nil, pkg.ValidateBusinessError(constant.ErrCampaignUnavailable, "Campaign", input.CampaignID)
	}

	loc := bundle.Campaign.Location()

	userView, err := uc.StateRepo.FindUserState(ctx, input.UserID, input.CampaignID, lottery.DefaultRingCapacity)
	if err != nil {
		return nil, err
	}

	userView.ResetIfNewDay(now, loc)

	if q := bundle.Campaign.DailyQuota; q > 0 && userView.TotalDrawsToday >= q {
		return nil, pkg.ValidateBusinessError(constant.ErrQuotaExceeded, "Draw")
	}

	globalView, err := uc.StateRepo.FindGlobalState(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}

	window := time.Duration(bundle.Pricing.PressureWindowSeconds) * time.Second
	globalView.RollWindow(now, window)

	cost := bundle.Campaign.CostPerDraw
	costKey := input.IdempotencyKey + constant.CostBusinessKeySuffix

	if cost > 0 {
		_, err = uc.LedgerRepo.Reserve(ctx, input.UserID, bundle.Campaign.CostAssetCode, cost, costKey)
		if err != nil {
			if errors.Is(err, constant.ErrInsufficientFunds) {
				return nil, pkg.ValidateBusinessError(constant.ErrInsufficientFunds, "Balance")
			}

			return nil, err
		}
	}

	plan := uc.resolveDraw(bundle, userView, globalView)

	release, err := uc.RedisRepo.AcquireDrawLock(ctx, input.UserID, input.CampaignID, uc.drawLockTTL())
	if err != nil {
		uc.releaseReservation(ctx, input.UserID, bundle.Campaign.CostAssetCode, cost, costKey)

		return nil, pkg.ValidateBusinessError(constant.ErrLockTimeout, "Draw", input.CampaignID)
	}
	defer release()

	var committed *mmodel.DrawRecord

	err = uc.Tx.WithinSerializable(ctx, func(ctx context.Context, tx *sql.Tx) error {
		record, err := uc.commitDraw(ctx, tx, input, plan, now, loc, window, cost, costKey)
		if err != nil {
			return err
		}

		committed = record

		return nil
	})
	if err != nil {
		if errors.Is(err, constant.ErrIdempotencyKeyAlreadyExists) {
			// A concurrent submission with the same key committed first;
			// its reservation and record stand, ours reads as a replay.
			stored, ferr := uc.DrawRepo.FindByIdempotencyKey(ctx, input.UserID, input.IdempotencyKey)
			if ferr == nil {
				return uc.replayResult(ctx, stored)
			}

			return nil, ferr
		}

		uc.releaseReservation(ctx, input.UserID, bundle.Campaign.CostAssetCode, cost, costKey)

		if postgres.IsSerializationFailure(err) {
			return nil, pkg.ValidateBusinessError(constant.ErrConcurrencyConflict, "Draw", input.CampaignID)
		}

		return nil, err
	}

	uc.fanOutDrawCompleted(ctx, committed)

	balances, err := uc.LedgerRepo.ListBalances(ctx, input.UserID)
	if err != nil {
		logger.Warnf("balance read after draw %s failed: %v", committed.ID, err)
	}

	return newDrawResult(committed, balances, false), nil
}

// resolveDraw runs the pure decision pipeline against the lock-free state
// views: weight resolution, tier sampling, post-selection guards and the
// tentative prize pick.
func (uc *UseCase) resolveDraw(bundle *mmodel.PolicyBundle, userView *mmodel.UserCampaignState, globalView *mmodel.CampaignGlobalState) *drawPlan {
	rng, seed := uc.newRNG()

	resolution := lottery.ResolveWeights(lottery.ResolveInput{
		Base:         bundle.BaseWeights(),
		BudgetDebt:   globalView.BudgetDebt,
		WindowCost:   globalView.WindowCost,
		WindowReward: globalView.WindowReward,
		EmptyStreak:  userView.EmptyStreak,
		Stats:        globalView.LuckStats(),
		Pricing:      bundle.Pricing,
		Pity:         bundle.Pity,
		Luck:         bundle.Luck,
	})

	sampledTier := lottery.SampleTier(resolution.Weights, rng)

	avail := buildAvailability(bundle, userView)
	effectiveBudget := bundle.Guard.ForceBudgetCeiling - globalView.BudgetDebt

	finalTier, antiEmptyTrace := lottery.ApplyAntiEmptyStreak(sampledTier, userView.EmptyStreak, avail, effectiveBudget, bundle.Guard)
	forced := finalTier != sampledTier

	finalTier, antiHighTrace := lottery.ApplyAntiHighStreak(finalTier, userView.HighStreak, bundle.Guard)

	// A naturally sampled tier whose daily cap is already spent resolves to
	// fallback; forced picks already respected the caps.
	if !finalTier.IsFallback() && !forced && avail[finalTier].CapRemaining == 0 {
		finalTier = lottery.TierFallback
	}

	prizeID := ""
	if candidates := prizeCandidates(bundle, finalTier); len(candidates) > 0 {
		if id, ok := lottery.SamplePrize(candidates, rng); ok {
			prizeID = id
		}
	}

	return &drawPlan{
		bundle:      bundle,
		rng:         rng,
		seed:        seed,
		resolution:  resolution,
		guardTraces: []lottery.StageTrace{antiEmptyTrace, antiHighTrace},
		sampledTier: sampledTier,
		finalTier:   finalTier,
		forced:      forced,
		pityType:    pityTypeFromTraces(resolution.Traces),
		prizeID:     prizeID,
	}
}

// commitDraw is the serialisable commit: every read is re-verified under row
// locks, then stock, ledger, state and the draw record move atomically.
func (uc *UseCase) commitDraw(ctx context.Context, tx *sql.Tx, input *mmodel.CreateDrawInput, plan *drawPlan, now time.Time, loc *time.Location, window time.Duration, cost int64, costKey string) (*mmodel.DrawRecord, error) {
	bundle := plan.bundle

	userState, err := uc.StateRepo.FindUserStateForUpdate(ctx, tx, input.UserID, input.CampaignID, lottery.DefaultRingCapacity)
	if err != nil {
		return nil, err
	}

	userState.ResetIfNewDay(now, loc)

	if q := bundle.Campaign.DailyQuota; q > 0 && userState.TotalDrawsToday >= q {
		return nil, pkg.ValidateBusinessError(constant.ErrQuotaExceeded, "Draw")
	}

	finalTier := plan.finalTier
	stockFellBack := false

	// Daily tier caps re-verified under the row lock; a capped tier resolves
	// to fallback rather than failing the draw.
	if !finalTier.IsFallback() {
		rule := bundle.Rule(finalTier)
		if rule.DailyCapPerUser > 0 && userState.TierAwardsToday(finalTier) >= rule.DailyCapPerUser {
			finalTier = lottery.TierFallback
		}
	}

	prize, err := uc.lockAwardablePrize(ctx, tx, bundle, finalTier, plan.prizeID, plan.rng)
	if err != nil {
		return nil, err
	}

	if prize == nil && !finalTier.IsFallback() {
		// The planned tier depleted between sampling and commit. One re-pick
		// from fallback, which policy validation guarantees is stocked.
		finalTier = lottery.TierFallback
		stockFellBack = true

		prize, err = uc.lockAwardablePrize(ctx, tx, bundle, finalTier, "", plan.rng)
		if err != nil {
			return nil, err
		}
	}

	if prize == nil {
		return nil, pkg.ValidateBusinessError(constant.ErrStockExhausted, "Prize", input.CampaignID)
	}

	decremented, err := uc.PrizeRepo.DecrementStock(ctx, tx, prize.ID)
	if err != nil {
		return nil, err
	}

	if !decremented {
		return nil, pkg.ValidateBusinessError(constant.ErrStockExhausted, "Prize", prize.ID)
	}

	if cost > 0 {
		err = uc.LedgerRepo.CommitReservation(ctx, tx, input.UserID, bundle.Campaign.CostAssetCode, cost, costKey)
		if err != nil {
			return nil, err
		}
	}

	if prize.Value > 0 {
		rewardKey := input.IdempotencyKey + constant.RewardBusinessKeySuffix

		err = uc.LedgerRepo.Credit(ctx, tx, input.UserID, bundle.Campaign.RewardAssetCode, prize.Value, rewardKey)
		if err != nil {
			return nil, err
		}
	}

	empty := finalTier.IsFallback()
	forced := plan.forced && !empty

	userState.ApplyDrawDelta(finalTier, now, loc, lottery.DefaultRingCapacity)

	if err := uc.StateRepo.SaveUserState(ctx, tx, userState); err != nil {
		return nil, err
	}

	globalState, err := uc.StateRepo.FindGlobalStateForUpdate(ctx, tx, input.CampaignID)
	if err != nil {
		return nil, err
	}

	globalState.ApplyDrawDelta(cost, prize.Value, empty, forced, window, now)

	if err := uc.StateRepo.SaveGlobalState(ctx, tx, globalState); err != nil {
		return nil, err
	}

	record := uc.buildRecord(input, plan, finalTier, prize, stockFellBack, forced, cost, now)

	if err := uc.DrawRepo.Create(ctx, tx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// lockAwardablePrize locks the planned prize and verifies it is still
// awardable in the given tier, re-sampling from the tier's locked survivors
// when it is not. A nil prize with nil error means the tier is depleted.
func (uc *UseCase) lockAwardablePrize(ctx context.Context, tx *sql.Tx, bundle *mmodel.PolicyBundle, tier lottery.Tier, preferredID string, rng lottery.RNG) (*mmodel.Prize, error) {
	floor := bundle.Rule(tier).HardStockFloor

	if preferredID != "" {
		prize, err := uc.PrizeRepo.FindForUpdate(ctx, tx, preferredID)
		if err != nil && !errors.Is(err, constant.ErrPrizeNotFound) {
			return nil, err
		}

		if err == nil && prize.Tier == tier && prize.Awardable(floor) {
			return prize, nil
		}
	}

	available, err := uc.PrizeRepo.FindAvailableByTierForUpdate(ctx, tx, bundle.Campaign.ID, tier)
	if err != nil {
		return nil, err
	}

	candidates := make([]lottery.PrizeWeight, 0, len(available))

	for _, p := range available {
		if !p.Awardable(floor) {
			continue
		}

		weight := p.BaseWeight
		if weight <= 0 {
			weight = 1
		}

		candidates = append(candidates, lottery.PrizeWeight{ID: p.ID, Weight: weight})
	}

	id, ok := lottery.SamplePrize(candidates, rng)
	if !ok {
		return nil, nil
	}

	for i := range available {
		if available[i].ID == id {
			return &available[i], nil
		}
	}

	return nil, nil
}

func (uc *UseCase) buildRecord(input *mmodel.CreateDrawInput, plan *drawPlan, finalTier lottery.Tier, prize *mmodel.Prize, stockFellBack, forced bool, cost int64, now time.Time) *mmodel.DrawRecord {
	outcome := constant.OutcomeAwarded
	if finalTier.IsFallback() {
		outcome = constant.OutcomeEmpty
	}

	selection := lottery.StageTrace{
		Stage:  lottery.StageSelection,
		Input:  plan.resolution.Weights,
		Output: plan.resolution.Weights,
		Attrs: map[string]string{
			"sampled_tier":    string(plan.sampledTier),
			"final_tier":      string(finalTier),
			"prize_id":        prize.ID,
			"stock_fell_back": strconv.FormatBool(stockFellBack),
		},
	}

	stages := make([]lottery.StageTrace, 0, len(plan.resolution.Traces)+len(plan.guardTraces)+1)
	stages = append(stages, plan.resolution.Traces...)
	stages = append(stages, plan.guardTraces...)
	stages = append(stages, selection)

	snapshot := mmodel.DecisionSnapshot{
		PolicyVersion: plan.bundle.Version,
		RNGSeed:       plan.seed,
		BudgetTier:    plan.resolution.BudgetTier.String(),
		PressureTier:  plan.resolution.PressureTier.String(),
		Stages:        stages,
		FinalWeights:  plan.resolution.Weights,
		SampledTier:   plan.sampledTier,
		FinalTier:     finalTier,
		PityType:      plan.pityType,
		Forced:        forced,
		StockFellBack: stockFellBack,
		PrizeID:       prize.ID,
		Outcome:       outcome,
	}

	prizeID := prize.ID

	return &mmodel.DrawRecord{
		ID:             uuid.Must(uuid.NewV7()).String(),
		UserID:         input.UserID,
		CampaignID:     input.CampaignID,
		IdempotencyKey: input.IdempotencyKey,
		PrizeID:        &prizeID,
		PrizeName:      prize.Name,
		PrizeValue:     prize.Value,
		Tier:           finalTier,
		Outcome:        outcome,
		CostAssetCode:  plan.bundle.Campaign.CostAssetCode,
		CostAmount:     cost,
		Snapshot:       snapshot,
		CreatedAt:      now,
	}
}

// fanOutDrawCompleted archives the snapshot and publishes the completion
// event after commit. Both are asynchronous and lossy; failures are logged
// and never surface to the caller.
func (uc *UseCase) fanOutDrawCompleted(ctx context.Context, record *mmodel.DrawRecord) {
	logger := libCommons.NewLoggerFromContext(ctx)
	bg := context.WithoutCancel(ctx)

	go func() {
		if err := uc.SnapshotRepo.Create(bg, record); err != nil {
			logger.Warnf("snapshot archive failed for draw %s: %v", record.ID, err)
		}

		event := &mmodel.DrawCompletedEvent{
			DecisionID:     record.ID,
			UserID:         record.UserID,
			CampaignID:     record.CampaignID,
			IdempotencyKey: record.IdempotencyKey,
			Outcome:        record.Outcome,
			Tier:           record.Tier,
			CostAmount:     record.CostAmount,
			Snapshot:       record.Snapshot,
			OccurredAt:     record.CreatedAt,
		}
		if record.PrizeID != nil {
			event.PrizeID = *record.PrizeID
		}

		if err := uc.Producer.ProduceDrawCompleted(bg, event); err != nil {
			logger.Warnf("draw completed event failed for draw %s: %v", record.ID, err)
		}
	}()
}

func (uc *UseCase) replayResult(ctx context.Context, record *mmodel.DrawRecord) (*mmodel.DrawResult, error) {
	logger := libCommons.NewLoggerFromContext(ctx)

	balances, err := uc.LedgerRepo.ListBalances(ctx, record.UserID)
	if err != nil {
		logger.Warnf("balance read on replay of draw %s failed: %v", record.ID, err)
	}

	return newDrawResult(record, balances, true), nil
}

func (uc *UseCase) releaseReservation(ctx context.Context, userID, assetCode string, amount int64, businessKey string) {
	if amount <= 0 {
		return
	}

	logger := libCommons.NewLoggerFromContext(ctx)

	if err := uc.LedgerRepo.Release(context.WithoutCancel(ctx), userID, assetCode, amount, businessKey); err != nil {
		logger.Errorf("reservation release failed for key %s: %v", businessKey, err)
	}
}

func newDrawResult(record *mmodel.DrawRecord, balances []mmodel.Balance, replayed bool) *mmodel.DrawResult {
	result := &mmodel.DrawResult{
		Outcome:       record.Outcome,
		CostAssetCode: record.CostAssetCode,
		CostAmount:    record.CostAmount,
		Balances:      balances,
		DecisionID:    record.ID,
		Replayed:      replayed,
	}

	if record.Outcome == constant.OutcomeAwarded && record.PrizeID != nil {
		result.Prize = &mmodel.PrizeDescriptor{
			ID:    *record.PrizeID,
			Tier:  record.Tier,
			Name:  record.PrizeName,
			Value: record.PrizeValue,
		}
	}

	return result
}

// buildAvailability projects the policy bundle and the user's daily counters
// into the guards' per-tier availability view.
func buildAvailability(bundle *mmodel.PolicyBundle, state *mmodel.UserCampaignState) map[lottery.Tier]lottery.TierAvailability {
	avail := make(map[lottery.Tier]lottery.TierAvailability, len(lottery.NonFallbackTiers))

	for _, t := range lottery.NonFallbackTiers {
		rule := bundle.Rule(t)

		a := lottery.TierAvailability{CapRemaining: -1}

		if rule.DailyCapPerUser > 0 {
			a.CapRemaining = rule.DailyCapPerUser - state.TierAwardsToday(t)
			if a.CapRemaining < 0 {
				a.CapRemaining = 0
			}
		}

		for _, p := range bundle.Prizes {
			if p.CampaignID != bundle.Campaign.ID || p.Tier != t || !p.Awardable(rule.HardStockFloor) {
				continue
			}

			if !a.HasStock || p.Value < a.MinPrizeValue {
				a.MinPrizeValue = p.Value
			}

			a.HasStock = true
		}

		avail[t] = a
	}

	return avail
}

// prizeCandidates lists the awardable prizes of a tier from the policy view.
func prizeCandidates(bundle *mmodel.PolicyBundle, tier lottery.Tier) []lottery.PrizeWeight {
	floor := bundle.Rule(tier).HardStockFloor

	candidates := make([]lottery.PrizeWeight, 0)

	for _, p := range bundle.Prizes {
		if p.Tier != tier || !p.Awardable(floor) {
			continue
		}

		weight := p.BaseWeight
		if weight <= 0 {
			weight = 1
		}

		candidates = append(candidates, lottery.PrizeWeight{ID: p.ID, Weight: weight})
	}

	return candidates
}

func pityTypeFromTraces(traces []lottery.StageTrace) string {
	for _, trace := range traces {
		if trace.Stage == lottery.StagePity {
			if t, ok := trace.Attrs["pity_type"]; ok {
				return t
			}
		}
	}

	return lottery.PityNone
}
