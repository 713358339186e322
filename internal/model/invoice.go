package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice Status
type InvoiceStatus string

const (
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusVoided InvoiceStatus = "voided"
)

// Invoice is the immutable financial record paired 1:1 with a successful
// Payment. It is created in the same transaction as the subscription it
// bills for, so neither can exist without the other.
type Invoice struct {
	gorm.Model
	Number         string `json:"number" gorm:"uniqueIndex;not null"`
	PaymentID      uint   `json:"payment_id" gorm:"uniqueIndex;not null"`
	SubscriptionID uint   `json:"subscription_id" gorm:"not null"`
	UserID         uint   `json:"user_id" gorm:"not null;index"`

	LineItems datatypes.JSON `json:"line_items"`
	Subtotal  float64        `json:"subtotal" gorm:"not null"`
	TaxRate   float64        `json:"tax_rate" gorm:"not null"`
	TaxAmount float64        `json:"tax_amount" gorm:"not null"`
	Total     float64        `json:"total" gorm:"not null"`

	Status   InvoiceStatus `json:"status" gorm:"default:'paid'"`
	PaidDate time.Time     `json:"paid_date"`

	// Relations
	Payment      Payment          `json:"-" gorm:"foreignKey:PaymentID"`
	Subscription UserSubscription `json:"-" gorm:"foreignKey:SubscriptionID"`
}

// InvoiceLineItem is one entry of Invoice.LineItems.
type InvoiceLineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
}

// InvoiceSequence holds the per-calendar-month invoice counter. The row is
// bumped with an atomic update inside the activation transaction, so two
// payments landing in the same month cannot take the same number.
type InvoiceSequence struct {
	ID       uint   `gorm:"primarykey"`
	MonthKey string `gorm:"uniqueIndex;not null"` // "200601" format
	LastSeq  int    `gorm:"not null;default:0"`
}
