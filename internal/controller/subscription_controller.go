package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
	"github.com/Amarjit99/JobPortal-sub003/pkg/database"
	"github.com/Amarjit99/JobPortal-sub003/pkg/email"
	"github.com/Amarjit99/JobPortal-sub003/pkg/entitlement"
	"github.com/Amarjit99/JobPortal-sub003/pkg/utils/jwt"
)

func InitSubscriptionController() {}

func ListPlans(c *fiber.Ctx) error {
	var plans []model.Plan
	if err := database.DB.Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription plans",
		})
	}

	return c.JSON(plans)
}

func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	sub, err := entitlement.ActiveSubscription(database.DB, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription",
		})
	}
	if sub == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	return c.JSON(sub)
}

// CancelSubscription ends the caller's active term. Cancellation is
// terminal; a new term requires a new payment.
func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	sub, err := entitlement.ActiveSubscription(database.DB, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription",
		})
	}
	if sub == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	if err := database.DB.Model(sub).Update("status", model.SubscriptionStatusCancelled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription status",
		})
	}

	if email.GlobalEmailService != nil {
		var user model.User
		if err := database.DB.First(&user, claims.UserID).Error; err == nil {
			if err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
				user.Email,
				user.GetFullName(),
				sub.Plan.Name,
				time.Now(),
			); err != nil {
				log.Printf("Could not send subscription cancellation email: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled successfully",
	})
}

func GetMyInvoices(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var invoices []model.Invoice
	if err := database.DB.Where("user_id = ?", claims.UserID).
		Order("created_at DESC").Find(&invoices).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch invoices",
		})
	}

	return c.JSON(invoices)
}
