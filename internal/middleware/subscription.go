package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Amarjit99/JobPortal-sub003/pkg/database"
	"github.com/Amarjit99/JobPortal-sub003/pkg/entitlement"
	"github.com/Amarjit99/JobPortal-sub003/pkg/utils/jwt"
)

// RequireCredits gates a route on the caller's subscription having at least
// one credit left for the given action. The check alone does not consume
// anything; the handler performs the atomic consume after its own work is
// known to be valid. The loaded subscription is stashed in locals so the
// handler does not query it again.
func RequireCredits(kind entitlement.ActionKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		sub, err := entitlement.ActiveSubscription(database.DB, claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not fetch subscription",
			})
		}
		if sub == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "No active subscription found",
			})
		}

		if check := entitlement.CanPerformAction(sub, kind, 1); !check.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": check.Reason,
			})
		}

		c.Locals("subscription", sub)
		return c.Next()
	}
}
