// Package billing owns the payment gateway integration and the one-time
// transition from a verified payment to an active subscription term with
// its paired invoice.
package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
)

const TaxRate = 0.18 // flat GST

var ErrPaymentNotFound = errors.New("payment not found")

// Activate turns a verified payment-success callback into an active
// subscription and its invoice. It is idempotent against re-delivery:
// replaying the same order id returns the already-created subscription and
// never produces a second subscription or invoice. Signature verification
// is the caller's responsibility and must happen before this runs.
func Activate(db *gorm.DB, orderID, gatewayPaymentID, signature string) (*model.UserSubscription, error) {
	var payment model.Payment
	if err := db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status == model.PaymentStatusSuccess {
		return subscriptionForPayment(db, payment.ID)
	}

	var plan model.Plan
	if err := db.First(&plan, payment.PlanID).Error; err != nil {
		return nil, err
	}

	var sub model.UserSubscription
	err := db.Transaction(func(tx *gorm.DB) error {
		// Guarded transition: only one activation can move the payment out
		// of pending. A concurrent re-delivery sees zero rows and backs off.
		res := tx.Model(&model.Payment{}).
			Where("id = ? AND status = ?", payment.ID, model.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":             model.PaymentStatusSuccess,
				"gateway_payment_id": gatewayPaymentID,
				"gateway_signature":  signature,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyActivated
		}

		now := time.Now()
		endDate := now.AddDate(0, 1, 0)
		if payment.BillingCycle == model.BillingCycleAnnual {
			endDate = now.AddDate(1, 0, 0)
		}

		sub = model.UserSubscription{
			UserID:             payment.UserID,
			PlanID:             payment.PlanID,
			Status:             model.SubscriptionStatusActive,
			BillingCycle:       payment.BillingCycle,
			StartDate:          now,
			EndDate:            endDate,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   endDate,
			AutoRenew:          false,
			LastPaymentID:      &payment.ID,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		invoice, err := buildInvoice(tx, &payment, &sub, &plan, now)
		if err != nil {
			return err
		}
		return tx.Create(invoice).Error
	})

	if errors.Is(err, errAlreadyActivated) {
		return subscriptionForPayment(db, payment.ID)
	}
	if err != nil {
		return nil, err
	}

	sub.Plan = plan
	return &sub, nil
}

var errAlreadyActivated = errors.New("payment already activated")

func subscriptionForPayment(db *gorm.DB, paymentID uint) (*model.UserSubscription, error) {
	var sub model.UserSubscription
	if err := db.Preload("Plan").Where("last_payment_id = ?", paymentID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func buildInvoice(tx *gorm.DB, payment *model.Payment, sub *model.UserSubscription, plan *model.Plan, now time.Time) (*model.Invoice, error) {
	number, err := nextInvoiceNumber(tx, now)
	if err != nil {
		return nil, err
	}

	items, err := json.Marshal([]model.InvoiceLineItem{{
		Description: fmt.Sprintf("%s (%s)", plan.Name, payment.BillingCycle),
		Quantity:    1,
		Amount:      payment.Amount,
	}})
	if err != nil {
		return nil, err
	}

	taxAmount := payment.Amount * TaxRate

	return &model.Invoice{
		Number:         number,
		PaymentID:      payment.ID,
		SubscriptionID: sub.ID,
		UserID:         payment.UserID,
		LineItems:      items,
		Subtotal:       payment.Amount,
		TaxRate:        TaxRate * 100,
		TaxAmount:      taxAmount,
		Total:          payment.Amount + taxAmount,
		Status:         model.InvoiceStatusPaid,
		PaidDate:       now,
	}, nil
}

// nextInvoiceNumber allocates the next INV-YYYYMM-#### number. The month
// row is bumped with an atomic in-place update while the surrounding
// transaction holds its row lock, so concurrent activations in the same
// month cannot take the same number.
func nextInvoiceNumber(tx *gorm.DB, now time.Time) (string, error) {
	monthKey := now.Format("200601")

	res := tx.Model(&model.InvoiceSequence{}).
		Where("month_key = ?", monthKey).
		Update("last_seq", gorm.Expr("last_seq + 1"))
	if res.Error != nil {
		return "", res.Error
	}

	if res.RowsAffected == 0 {
		// First invoice of the month. A concurrent first-of-month insert
		// loses on the unique month_key and falls back to the update.
		err := tx.Create(&model.InvoiceSequence{MonthKey: monthKey, LastSeq: 1}).Error
		if err == nil {
			return fmt.Sprintf("INV-%s-%04d", monthKey, 1), nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", err
		}
		res = tx.Model(&model.InvoiceSequence{}).
			Where("month_key = ?", monthKey).
			Update("last_seq", gorm.Expr("last_seq + 1"))
		if res.Error != nil {
			return "", res.Error
		}
	}

	var seq model.InvoiceSequence
	if err := tx.Where("month_key = ?", monthKey).First(&seq).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("INV-%s-%04d", monthKey, seq.LastSeq), nil
}
