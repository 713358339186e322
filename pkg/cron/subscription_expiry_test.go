package cron

import (
	"fmt"
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

	if err := db.AutoMigrate(&model.Plan{}, &model.UserSubscription{}); err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestExpireOverdueSubscriptions(t *testing.T) {
	db := testDB(t)

	overdue := model.UserSubscription{
		UserID:       1,
		PlanID:       1,
		Status:       model.SubscriptionStatusActive,
		BillingCycle: model.BillingCycleMonthly,
		EndDate:      time.Now().AddDate(0, 0, -1),
	}
	current := model.UserSubscription{
		UserID:       2,
		PlanID:       1,
		Status:       model.SubscriptionStatusActive,
		BillingCycle: model.BillingCycleMonthly,
		EndDate:      time.Now().AddDate(0, 1, 0),
	}
	cancelled := model.UserSubscription{
		UserID:       3,
		PlanID:       1,
		Status:       model.SubscriptionStatusCancelled,
		BillingCycle: model.BillingCycleMonthly,
		EndDate:      time.Now().AddDate(0, 0, -1),
	}
	for _, sub := range []*model.UserSubscription{&overdue, &current, &cancelled} {
		if err := db.Create(sub).Error; err != nil {
			t.Fatal(err)
		}
	}

	if err := ExpireOverdueSubscriptions(db); err != nil {
		t.Fatal(err)
	}

	var fresh model.UserSubscription
	db.First(&fresh, overdue.ID)
	if fresh.Status != model.SubscriptionStatusExpired {
		t.Fatalf("overdue subscription status = %s, want expired", fresh.Status)
	}

	fresh = model.UserSubscription{}
	db.First(&fresh, current.ID)
	if fresh.Status != model.SubscriptionStatusActive {
		t.Fatalf("current subscription status = %s, want active", fresh.Status)
	}

	fresh = model.UserSubscription{}
	db.First(&fresh, cancelled.ID)
	if fresh.Status != model.SubscriptionStatusCancelled {
		t.Fatalf("cancelled subscription must stay terminal, got %s", fresh.Status)
	}
}
