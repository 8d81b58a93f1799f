package in

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewRouter assembles the fiber application with the draw routes mounted.
func NewRouter(logger libLog.Logger, handler *DrawHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(withLogger(logger))

	app.Post("/v1/users/:user_id/campaigns/:campaign_id/draws", handler.CreateDraw)
	app.Get("/v1/users/:user_id/draws/:idempotency_key", handler.GetDraw)
	app.Get("/v1/users/:user_id/draws/:idempotency_key/snapshot", handler.GetDrawSnapshot)
	app.Get("/v1/users/:user_id/balances", handler.ListBalances)
	app.Get("/v1/users/:user_id/balances/:asset_code", handler.GetBalance)
	app.Delete("/v1/campaigns/:campaign_id/policy-cache", handler.InvalidatePolicyCache)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app
}

// withLogger injects the structured logger into the request context so the
// services can pull it back out with NewLoggerFromContext.
func withLogger(logger libLog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(libCommons.ContextWithLogger(c.UserContext(), logger))

		return c.Next()
	}
}
