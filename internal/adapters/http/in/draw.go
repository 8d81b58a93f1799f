// Package in holds the inbound HTTP surface of the draw engine.
package in

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	"github.com/gofiber/fiber/v2"

	"github.com/feastly/draw-engine/internal/services/command"
	"github.com/feastly/draw-engine/internal/services/query"
	"github.com/feastly/draw-engine/pkg"
	"github.com/feastly/draw-engine/pkg/constant"
	"github.com/feastly/draw-engine/pkg/mmodel"
	netHTTP "github.com/feastly/draw-engine/pkg/net/http"
)

// DrawHandler exposes draw execution and the read endpoints around it.
type DrawHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// CreateDraw handles POST /v1/users/:user_id/campaigns/:campaign_id/draws.
// The idempotency key comes from the X-Idempotency header; a replayed draw
// answers 200 with the stored result instead of 201.
func (h *DrawHandler) CreateDraw(c *fiber.Ctx) error {
	ctx := c.UserContext()
	logger := libCommons.NewLoggerFromContext(ctx)

	idempotencyKey := c.Get(constant.IdempotencyHeader)
	if idempotencyKey == "" || len(idempotencyKey) > constant.MaxIdempotencyKeyLength {
		return netHTTP.WithError(c, pkg.ValidateBusinessError(constant.ErrInvalidIdempotencyKey, "Draw"))
	}

	input := &mmodel.CreateDrawInput{
		UserID:         c.Params("user_id"),
		CampaignID:     c.Params("campaign_id"),
		IdempotencyKey: idempotencyKey,
	}

	if err := netHTTP.ValidateStruct(input); err != nil {
		return netHTTP.WithError(c, err)
	}

	result, err := h.Command.ExecuteDraw(ctx, input)
	if err != nil {
		logger.Errorf("draw failed for user %s campaign %s: %v", input.UserID, input.CampaignID, err)

		return netHTTP.WithError(c, err)
	}

	if result.Replayed {
		return netHTTP.OK(c, result)
	}

	return netHTTP.Created(c, result)
}

// GetDraw handles GET /v1/users/:user_id/draws/:idempotency_key. The response
// carries the same shape as a fresh draw, marked as a replay.
func (h *DrawHandler) GetDraw(c *fiber.Ctx) error {
	ctx := c.UserContext()

	result, err := h.Query.GetDrawResult(ctx, c.Params("user_id"), c.Params("idempotency_key"))
	if err != nil {
		return netHTTP.WithError(c, err)
	}

	return netHTTP.OK(c, result)
}

// GetDrawSnapshot handles GET /v1/users/:user_id/draws/:idempotency_key/snapshot.
func (h *DrawHandler) GetDrawSnapshot(c *fiber.Ctx) error {
	ctx := c.UserContext()

	snapshot, err := h.Query.GetDecisionSnapshot(ctx, c.Params("user_id"), c.Params("idempotency_key"))
	if err != nil {
		return netHTTP.WithError(c, err)
	}

	return netHTTP.OK(c, snapshot)
}

// ListBalances handles GET /v1/users/:user_id/balances.
func (h *DrawHandler) ListBalances(c *fiber.Ctx) error {
	ctx := c.UserContext()

	balances, err := h.Query.ListBalances(ctx, c.Params("user_id"))
	if err != nil {
		return netHTTP.WithError(c, err)
	}

	return netHTTP.OK(c, balances)
}

// InvalidatePolicyCache handles DELETE /v1/campaigns/:campaign_id/policy-cache.
// Policy writers call it after publishing a new policy version.
func (h *DrawHandler) InvalidatePolicyCache(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if err := h.Query.InvalidatePolicyBundleCache(ctx, c.Params("campaign_id")); err != nil {
		return netHTTP.WithError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetBalance handles GET /v1/users/:user_id/balances/:asset_code.
func (h *DrawHandler) GetBalance(c *fiber.Ctx) error {
	ctx := c.UserContext()

	balance, err := h.Query.GetBalance(ctx, c.Params("user_id"), c.Params("asset_code"))
	if err != nil {
		return netHTTP.WithError(c, err)
	}

	return netHTTP.OK(c, balance)
}
