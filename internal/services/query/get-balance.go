package query

import (
	"context"
	"errors"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"

	"github.com/feastly/draw-engine/pkg"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/mmodel"
)

// GetBalance returns the user's position in one asset.
func (uc *UseCase) GetBalance(ctx context.Context, userID, assetCode string) (*mmodel.Balance, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_balance")
	defer span.End()

	balance, err := uc.LedgerRepo.FindBalance(ctx, userID, assetCode)
	if err != nil {
		if errors.Is(err, constant.ErrBalanceNotFound) {
			return nil, pkg.ValidateBusinessError(constant.ErrBalanceNotFound, "Balance", userID, assetCode)
		}

		return nil, err
	}

	return balance, nil
}

// ListBalances returns every asset position the user holds.
func (uc *UseCase) ListBalances(ctx context.Context, userID string) ([]mmodel.Balance, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.list_balances")
	defer span.End()

	return uc.LedgerRepo.ListBalances(ctx, userID)
}
