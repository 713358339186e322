package model

import (
	"gorm.io/gorm"
)

// Payment Status
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Payment is one gateway charge attempt. The pending → success transition
// is the sole trigger for subscription activation.
type Payment struct {
	gorm.Model
	UserID uint          `json:"user_id" gorm:"not null;index"`
	PlanID uint          `json:"plan_id" gorm:"not null"`
	Status PaymentStatus `json:"status" gorm:"default:'pending'"`

	BillingCycle BillingCycle `json:"billing_cycle" gorm:"not null"`
	Amount       float64      `json:"amount" gorm:"not null"`
	Currency     string       `json:"currency" gorm:"not null;default:'INR'"`

	// Gateway correlation ids
	OrderID          string `json:"order_id" gorm:"uniqueIndex;not null"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"-"`
	Receipt          string `json:"receipt"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
	Plan Plan `json:"-" gorm:"foreignKey:PlanID"`
}
