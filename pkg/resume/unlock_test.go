package resume

import (
	"fmt"
	"sync"
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
		&model.UnlockedResume{},
	); err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedRecruiter(t *testing.T, db *gorm.DB, resumeCreditLimit int) uint {
	t.Helper()

	plan := model.Plan{Name: "P", ResumeCreditLimit: resumeCreditLimit}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	sub := model.UserSubscription{
		UserID:       7,
		PlanID:       plan.ID,
		Status:       model.SubscriptionStatusActive,
		BillingCycle: model.BillingCycleMonthly,
		StartDate:    now,
		EndDate:      now.AddDate(0, 1, 0),
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatal(err)
	}

	return sub.UserID
}

func resumeCreditsUsed(t *testing.T, db *gorm.DB, recruiterID uint) int {
	t.Helper()

	var sub model.UserSubscription
	if err := db.Where("user_id = ?", recruiterID).First(&sub).Error; err != nil {
		t.Fatal(err)
	}
	return sub.ResumeCreditsUsed
}

func TestUnlockConsumesOneCredit(t *testing.T) {
	db := testDB(t)
	recruiterID := seedRecruiter(t, db, 10)

	result, err := Unlock(db, recruiterID, 101, 55)
	if err != nil {
		t.Fatal(err)
	}
	if result.Denied {
		t.Fatalf("unexpected denial: %q", result.Reason)
	}
	if result.AlreadyUnlocked {
		t.Fatal("first unlock must not report already unlocked")
	}
	if result.Record == nil || result.Record.CreditsUsed != 1 {
		t.Fatalf("unexpected record: %+v", result.Record)
	}

	if used := resumeCreditsUsed(t, db, recruiterID); used != 1 {
		t.Fatalf("expected 1 credit used, got %d", used)
	}
}

func TestUnlockIdempotent(t *testing.T) {
	db := testDB(t)
	recruiterID := seedRecruiter(t, db, 10)

	if _, err := Unlock(db, recruiterID, 101, 55); err != nil {
		t.Fatal(err)
	}

	second, err := Unlock(db, recruiterID, 101, 55)
	if err != nil {
		t.Fatal(err)
	}
	if second.Denied {
		t.Fatalf("repeat unlock denied: %q", second.Reason)
	}
	if !second.AlreadyUnlocked {
		t.Fatal("repeat unlock must report already unlocked")
	}

	var count int64
	db.Model(&model.UnlockedResume{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one unlock record, got %d", count)
	}

	if used := resumeCreditsUsed(t, db, recruiterID); used != 1 {
		t.Fatalf("repeat unlock must not charge again, used = %d", used)
	}
}

func TestUnlockConcurrent(t *testing.T) {
	db := testDB(t)
	recruiterID := seedRecruiter(t, db, 10)

	const workers = 20
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := Unlock(db, recruiterID, 101, 55)
			if err != nil {
				t.Errorf("unlock error: %v", err)
				return
			}
			if result.Denied {
				t.Errorf("unlock denied: %q", result.Reason)
			}
		}()
	}
	wg.Wait()

	var count int64
	db.Model(&model.UnlockedResume{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one unlock record, got %d", count)
	}

	if used := resumeCreditsUsed(t, db, recruiterID); used != 1 {
		t.Fatalf("expected exactly one credit charged, got %d", used)
	}
}

func TestUnlockWithoutSubscription(t *testing.T) {
	db := testDB(t)

	result, err := Unlock(db, 7, 101, 55)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Denied {
		t.Fatal("expected denial without a subscription")
	}
	if result.Reason != "No active subscription" {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}

	var count int64
	db.Model(&model.UnlockedResume{}).Count(&count)
	if count != 0 {
		t.Fatal("denied unlock must not create a record")
	}
}

func TestUnlockLimitReached(t *testing.T) {
	db := testDB(t)
	recruiterID := seedRecruiter(t, db, 1)

	if _, err := Unlock(db, recruiterID, 101, 55); err != nil {
		t.Fatal(err)
	}

	result, err := Unlock(db, recruiterID, 102, 55)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Denied {
		t.Fatal("expected denial at credit limit")
	}
	if result.Reason != "Resume credit limit reached (1/1)" {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}

	if used := resumeCreditsUsed(t, db, recruiterID); used != 1 {
		t.Fatalf("denied unlock must not charge, used = %d", used)
	}
}

func TestCheckAccess(t *testing.T) {
	db := testDB(t)
	recruiterID := seedRecruiter(t, db, 10)

	record, hasAccess, err := CheckAccess(db, recruiterID, 101)
	if err != nil {
		t.Fatal(err)
	}
	if record != nil || hasAccess {
		t.Fatal("expected no access before unlock")
	}

	if _, err := Unlock(db, recruiterID, 101, 55); err != nil {
		t.Fatal(err)
	}

	record, hasAccess, err = CheckAccess(db, recruiterID, 101)
	if err != nil {
		t.Fatal(err)
	}
	if record == nil || !hasAccess {
		t.Fatal("expected access after unlock")
	}
}

func TestCheckAccessExpired(t *testing.T) {
	db := testDB(t)

	expired := time.Now().AddDate(0, 0, -1)
	record := model.UnlockedResume{
		RecruiterID: 7,
		CandidateID: 101,
		CreditsUsed: 1,
		UnlockedAt:  time.Now().AddDate(0, -1, 0),
		ExpiresAt:   &expired,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatal(err)
	}

	found, hasAccess, err := CheckAccess(db, 7, 101)
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("expected the record to be returned")
	}
	if hasAccess {
		t.Fatal("expired unlock must not grant access")
	}
}
