package billing

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("could not open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("could not get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Plan{},
		&model.UserSubscription{},
		&model.Payment{},
		&model.Invoice{},
		&model.InvoiceSequence{},
	); err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedPendingPayment(t *testing.T, db *gorm.DB, orderID string, amount float64, cycle model.BillingCycle) *model.Payment {
	t.Helper()

	plan := model.Plan{Name: "Professional Plan", PriceMonthly: amount, PriceAnnual: amount, JobPostingLimit: 25}
	if err := db.FirstOrCreate(&plan, model.Plan{Name: plan.Name}).Error; err != nil {
		t.Fatal(err)
	}

	payment := model.Payment{
		UserID:       7,
		PlanID:       plan.ID,
		Status:       model.PaymentStatusPending,
		BillingCycle: cycle,
		Amount:       amount,
		Currency:     "INR",
		OrderID:      orderID,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatal(err)
	}
	return &payment
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestActivateCreatesSubscriptionAndInvoice(t *testing.T) {
	db := testDB(t)
	payment := seedPendingPayment(t, db, "order_1", 1000, model.BillingCycleAnnual)

	sub, err := Activate(db, "order_1", "pay_1", "sig_1")
	if err != nil {
		t.Fatal(err)
	}

	if sub.Status != model.SubscriptionStatusActive {
		t.Fatalf("subscription status = %s", sub.Status)
	}
	if sub.LastPaymentID == nil || *sub.LastPaymentID != payment.ID {
		t.Fatal("subscription must reference the payment that created it")
	}

	wantEnd := time.Now().AddDate(1, 0, 0)
	if diff := sub.EndDate.Sub(wantEnd); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("annual term end date = %v, want ~%v", sub.EndDate, wantEnd)
	}
	if !sub.CurrentPeriodEnd.Equal(sub.EndDate) {
		t.Fatal("current period end must match end date")
	}

	var fresh model.Payment
	if err := db.First(&fresh, payment.ID).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.Status != model.PaymentStatusSuccess {
		t.Fatalf("payment status = %s", fresh.Status)
	}
	if fresh.GatewayPaymentID != "pay_1" {
		t.Fatalf("gateway payment id = %q", fresh.GatewayPaymentID)
	}

	var invoice model.Invoice
	if err := db.Where("payment_id = ?", payment.ID).First(&invoice).Error; err != nil {
		t.Fatal(err)
	}
	if !almostEqual(invoice.Subtotal, 1000) {
		t.Fatalf("subtotal = %v", invoice.Subtotal)
	}
	if !almostEqual(invoice.TaxAmount, 180) {
		t.Fatalf("tax amount = %v", invoice.TaxAmount)
	}
	if !almostEqual(invoice.Total, 1180) {
		t.Fatalf("total = %v", invoice.Total)
	}
	if invoice.Status != model.InvoiceStatusPaid {
		t.Fatalf("invoice status = %s", invoice.Status)
	}

	wantNumber := fmt.Sprintf("INV-%s-0001", time.Now().Format("200601"))
	if invoice.Number != wantNumber {
		t.Fatalf("invoice number = %q, want %q", invoice.Number, wantNumber)
	}
}

func TestActivateMonthlyTerm(t *testing.T) {
	db := testDB(t)
	seedPendingPayment(t, db, "order_1", 999, model.BillingCycleMonthly)

	sub, err := Activate(db, "order_1", "pay_1", "sig_1")
	if err != nil {
		t.Fatal(err)
	}

	wantEnd := time.Now().AddDate(0, 1, 0)
	if diff := sub.EndDate.Sub(wantEnd); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("monthly term end date = %v, want ~%v", sub.EndDate, wantEnd)
	}
}

func TestActivateIdempotent(t *testing.T) {
	db := testDB(t)
	seedPendingPayment(t, db, "order_1", 1000, model.BillingCycleMonthly)

	first, err := Activate(db, "order_1", "pay_1", "sig_1")
	if err != nil {
		t.Fatal(err)
	}

	second, err := Activate(db, "order_1", "pay_1", "sig_1")
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != second.ID {
		t.Fatalf("replay returned a different subscription: %d vs %d", first.ID, second.ID)
	}

	var subCount, invoiceCount int64
	db.Model(&model.UserSubscription{}).Count(&subCount)
	db.Model(&model.Invoice{}).Count(&invoiceCount)
	if subCount != 1 {
		t.Fatalf("expected 1 subscription after replay, got %d", subCount)
	}
	if invoiceCount != 1 {
		t.Fatalf("expected 1 invoice after replay, got %d", invoiceCount)
	}
}

func TestActivateUnknownOrder(t *testing.T) {
	db := testDB(t)

	_, err := Activate(db, "order_missing", "pay_1", "sig_1")
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestInvoiceNumbersAreSequential(t *testing.T) {
	db := testDB(t)
	seedPendingPayment(t, db, "order_1", 1000, model.BillingCycleMonthly)
	seedPendingPayment(t, db, "order_2", 2000, model.BillingCycleMonthly)

	if _, err := Activate(db, "order_1", "pay_1", "sig_1"); err != nil {
		t.Fatal(err)
	}
	if _, err := Activate(db, "order_2", "pay_2", "sig_2"); err != nil {
		t.Fatal(err)
	}

	monthKey := time.Now().Format("200601")

	var invoices []model.Invoice
	if err := db.Order("id").Find(&invoices).Error; err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(invoices))
	}
	if invoices[0].Number != fmt.Sprintf("INV-%s-0001", monthKey) {
		t.Fatalf("first invoice number = %q", invoices[0].Number)
	}
	if invoices[1].Number != fmt.Sprintf("INV-%s-0002", monthKey) {
		t.Fatalf("second invoice number = %q", invoices[1].Number)
	}
}

func TestSubscriptionInvoicePairing(t *testing.T) {
	db := testDB(t)
	seedPendingPayment(t, db, "order_1", 1000, model.BillingCycleMonthly)

	sub, err := Activate(db, "order_1", "pay_1", "sig_1")
	if err != nil {
		t.Fatal(err)
	}

	var payment model.Payment
	if err := db.First(&payment, *sub.LastPaymentID).Error; err != nil {
		t.Fatal(err)
	}
	if payment.Status != model.PaymentStatusSuccess {
		t.Fatalf("paired payment status = %s", payment.Status)
	}

	var invoiceCount int64
	db.Model(&model.Invoice{}).Where("payment_id = ?", payment.ID).Count(&invoiceCount)
	if invoiceCount != 1 {
		t.Fatalf("expected exactly 1 invoice for the payment, got %d", invoiceCount)
	}
}
