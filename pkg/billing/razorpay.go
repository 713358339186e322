package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/razorpay/razorpay-go"

	"github.com/Amarjit99/JobPortal-sub003/pkg/config"
)

var (
	ErrOrderCreationFailed = errors.New("failed to create payment order")
	ErrRefundFailed        = errors.New("failed to refund payment")
)

// GatewayClient wraps the Razorpay SDK with the three calls this system
// needs: order creation, callback signature verification and refunds.
type GatewayClient struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewGatewayClient(cfg config.RazorpayConfig) *GatewayClient {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		log.Println("WARNING: Razorpay credentials are not configured")
	}

	return &GatewayClient{
		client:    razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
	}
}

func (c *GatewayClient) KeyID() string {
	return c.keyID
}

// CreateOrder registers a charge with the gateway. Amount is in rupees and
// converted to paise, the smallest currency unit the gateway expects.
func (c *GatewayClient) CreateOrder(amount float64, currency, receipt string) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   int(amount * 100),
		"currency": currency,
		"receipt":  receipt,
	}

	order, err := c.client.Order.Create(data, nil)
	if err != nil {
		log.Printf("Failed to create Razorpay order: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	log.Printf("Created Razorpay order %v for receipt %s", order["id"], receipt)
	return order, nil
}

// VerifySignature checks the HMAC-SHA256 the gateway attaches to a payment
// callback. The signed payload is "<orderID>|<paymentID>".
func (c *GatewayClient) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Refund returns the charged amount to the payer. Callers must invoke this
// before mutating any local payment state, so a failed gateway call leaves
// nothing to roll back.
func (c *GatewayClient) Refund(gatewayPaymentID string, amount float64) (map[string]interface{}, error) {
	refund, err := c.client.Payment.Refund(gatewayPaymentID, int(amount*100), map[string]interface{}{}, nil)
	if err != nil {
		log.Printf("Failed to refund Razorpay payment %s: %v", gatewayPaymentID, err)
		return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
	}

	log.Printf("Refunded Razorpay payment %s: refund %v", gatewayPaymentID, refund["id"])
	return refund, nil
}
