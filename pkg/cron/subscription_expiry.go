package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
	"github.com/Amarjit99/JobPortal-sub003/pkg/database"
	"github.com/Amarjit99/JobPortal-sub003/pkg/email"
)

func InitSubscriptionExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		if err := ExpireOverdueSubscriptions(database.DB); err != nil {
			log.Printf("Error expiring overdue subscriptions: %v", err)
		}
		sendExpiryWarnings()
	})

	if err != nil {
		log.Printf("Could not initialize subscription expiry cron: %v", err)
		return
	}

	c.Start()
}

// ExpireOverdueSubscriptions moves every active term past its end date to
// expired. Expiry is terminal; renewal means a new payment and a new term.
func ExpireOverdueSubscriptions(db *gorm.DB) error {
	res := db.Model(&model.UserSubscription{}).
		Where("status = ? AND end_date <= ?", model.SubscriptionStatusActive, time.Now()).
		Update("status", model.SubscriptionStatusExpired)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected > 0 {
		log.Printf("Expired %d overdue subscriptions", res.RowsAffected)
	}
	return nil
}

func sendExpiryWarnings() {
	if email.GlobalEmailService == nil {
		return
	}

	warningDays := []int{7, 3}

	for _, days := range warningDays {
		dayStart := time.Now().AddDate(0, 0, days).Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)

		var subs []model.UserSubscription
		err := database.DB.Where("status = ? AND end_date >= ? AND end_date < ?",
			model.SubscriptionStatusActive, dayStart, dayEnd).
			Preload("User").
			Preload("Plan").
			Find(&subs).Error

		if err != nil {
			log.Printf("Error fetching expiring subscriptions: %v", err)
			continue
		}

		log.Printf("Found %d subscriptions expiring in %d days", len(subs), days)

		for _, sub := range subs {
			err := email.GlobalEmailService.SendSubscriptionExpiryWarning(
				sub.User.Email,
				sub.User.GetFullName(),
				sub.Plan.Name,
				sub.EndDate,
				days,
			)
			if err != nil {
				log.Printf("Error sending expiry warning to %s: %v", sub.User.Email, err)
			}
		}
	}
}
