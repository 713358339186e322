package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
	"github.com/Amarjit99/JobPortal-sub003/pkg/billing"
	"github.com/Amarjit99/JobPortal-sub003/pkg/config"
	"github.com/Amarjit99/JobPortal-sub003/pkg/database"
	"github.com/Amarjit99/JobPortal-sub003/pkg/email"
	"github.com/Amarjit99/JobPortal-sub003/pkg/utils/jwt"
)

var gateway *billing.GatewayClient

func InitPaymentController(cfg config.RazorpayConfig) {
	gateway = billing.NewGatewayClient(cfg)
}

type CreateOrderInput struct {
	PlanID       uint   `json:"plan_id" validate:"required"`
	BillingCycle string `json:"billing_cycle" validate:"required"`
}

type VerifyPaymentInput struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// CreateOrder opens a gateway order for a plan purchase and records the
// pending payment. The gateway call happens first: if it fails, nothing
// local has changed.
func CreateOrder(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CreateOrderInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	cycle := model.BillingCycle(input.BillingCycle)
	if cycle != model.BillingCycleMonthly && cycle != model.BillingCycleAnnual {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Billing cycle must be 'monthly' or 'annual'",
		})
	}

	var plan model.Plan
	if err := database.DB.First(&plan, input.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription plan not found",
		})
	}

	amount := plan.PriceFor(cycle)
	receipt := uuid.New().String()

	order, err := gateway.CreateOrder(amount, "INR", receipt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create payment order",
		})
	}

	orderID, _ := order["id"].(string)

	payment := model.Payment{
		UserID:       claims.UserID,
		PlanID:       plan.ID,
		Status:       model.PaymentStatusPending,
		BillingCycle: cycle,
		Amount:       amount,
		Currency:     "INR",
		OrderID:      orderID,
		Receipt:      receipt,
	}

	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save payment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id": orderID,
		"amount":   amount,
		"currency": "INR",
		"key_id":   gateway.KeyID(),
	})
}

// VerifyPayment handles the gateway's payment-success callback: it checks
// the signature and runs the activation pipeline. Replayed callbacks for an
// already-processed order return the existing subscription.
func VerifyPayment(c *fiber.Ctx) error {
	input := new(VerifyPaymentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if !gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment signature",
		})
	}

	sub, err := billing.Activate(database.DB, input.OrderID, input.PaymentID, input.Signature)
	if err != nil {
		if errors.Is(err, billing.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Payment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not activate subscription",
		})
	}

	if email.GlobalEmailService != nil {
		var user model.User
		if err := database.DB.First(&user, sub.UserID).Error; err == nil {
			if err := email.GlobalEmailService.SendSubscriptionStartedEmail(
				user.Email,
				user.GetFullName(),
				sub.Plan.Name,
				string(sub.BillingCycle),
				sub.EndDate,
			); err != nil {
				log.Printf("Could not send subscription email: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Payment verified successfully",
		"subscription": sub,
	})
}

// RefundPayment refunds a successful payment and cancels the subscription
// it paid for. The gateway call precedes any local mutation.
func RefundPayment(c *fiber.Ctx) error {
	paymentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	var payment model.Payment
	if err := database.DB.First(&payment, paymentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if payment.Status != model.PaymentStatusSuccess {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only successful payments can be refunded",
		})
	}

	if _, err := gateway.Refund(payment.GatewayPaymentID, payment.Amount); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not refund payment",
		})
	}

	if err := database.DB.Model(&payment).Update("status", model.PaymentStatusRefunded).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update payment status",
		})
	}

	if err := database.DB.Model(&model.UserSubscription{}).
		Where("last_payment_id = ? AND status = ?", payment.ID, model.SubscriptionStatusActive).
		Update("status", model.SubscriptionStatusCancelled).Error; err != nil {
		log.Printf("Could not cancel subscription for refunded payment %d: %v", payment.ID, err)
	}

	return c.JSON(fiber.Map{
		"message": "Payment refunded successfully",
	})
}
