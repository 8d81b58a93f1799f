package query

import (
	"context"
	"errors"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"

	"github.com/feastly/draw-engine/pkg"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// GetDrawByIdempotencyKey returns the committed draw for a (user, key) pair.
func (uc *UseCase) GetDrawByIdempotencyKey(ctx context.Context, userID, idempotencyKey string) (*mmodel.DrawRecord, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_draw_by_idempotency_key")
	defer span.End()

	record, err := uc.DrawRepo.FindByIdempotencyKey(ctx, userID, idempotencyKey)
	if err != nil {
		if errors.Is(err, constant.ErrDrawRecordNotFound) {
			return nil, pkg.ValidateBusinessError(constant.ErrDrawRecordNotFound, "DrawRecord", idempotencyKey)
		}

		return nil, err
	}

	return record, nil
}

// GetDrawResult projects the stored draw for a (user, key) pair into the same
// caller-facing shape a fresh draw returns, marked as a replay.
func (uc *UseCase) GetDrawResult(ctx context.Context, userID, idempotencyKey string) (*mmodel.DrawResult, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_draw_result")
	defer span.End()

	record, err := uc.GetDrawByIdempotencyKey(ctx, userID, idempotencyKey)
	if err != nil {
		return nil, err
	}

	balances, err := uc.LedgerRepo.ListBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	return DrawResultFromRecord(record, balances), nil
}

// GetDecisionSnapshot reads the archived snapshot for a draw, preferring the
// mongo archive and falling back to the copy on the postgres record.
func (uc *UseCase) GetDecisionSnapshot(ctx context.Context, userID, idempotencyKey string) (*mmodel.DecisionSnapshot, error) {
	tracer := libCommons.NewTracerFromContext(ctx)
	logger := libCommons.NewLoggerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_decision_snapshot")
	defer span.End()

	record, err := uc.GetDrawByIdempotencyKey(ctx, userID, idempotencyKey)
	if err != nil {
		return nil, err
	}

	archived, err := uc.SnapshotRepo.FindByDrawID(ctx, record.ID)
	if err != nil {
		logger.Warnf("snapshot archive read failed for draw %s: %v", record.ID, err)
	}

	if archived != nil {
		return archived, nil
	}

	return &record.Snapshot, nil
}

// DrawResultFromRecord projects a stored record into the caller-facing result
// shape, marked as a replay.
func DrawResultFromRecord(record *mmodel.DrawRecord, balances []mmodel.Balance) *mmodel.DrawResult {
	result := &mmodel.DrawResult{
		Outcome:       record.Outcome,
		CostAssetCode: record.CostAssetCode,
		CostAmount:    record.CostAmount,
		Balances:      balances,
		DecisionID:    record.ID,
		Replayed:      true,
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
