package seed

import (
	"log"

	"gorm.io/gorm"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
)

func SeedSubscriptionPlans(db *gorm.DB) {
	plans := []model.Plan{
		{
			Name:              "Basic Plan",
			Description:       "For small teams hiring occasionally",
			PriceMonthly:      999,
			PriceAnnual:       9990,
			JobPostingLimit:   5,
			FeaturedJobLimit:  1,
			ResumeCreditLimit: 10,
		},
		{
			Name:              "Professional Plan",
			Description:       "For growing recruitment teams",
			PriceMonthly:      2999,
			PriceAnnual:       29990,
			JobPostingLimit:   25,
			FeaturedJobLimit:  5,
			ResumeCreditLimit: 100,
		},
		{
			Name:              "Enterprise Plan",
			Description:       "Unlimited hiring for large organizations",
			PriceMonthly:      9999,
			PriceAnnual:       99990,
			JobPostingLimit:   0,
			FeaturedJobLimit:  0,
			ResumeCreditLimit: 0,
		},
	}

	for _, plan := range plans {
		result := db.FirstOrCreate(&plan, model.Plan{Name: plan.Name})
		if result.Error != nil {
			log.Printf("Error creating plan %s: %v", plan.Name, result.Error)
		}
	}

	log.Println("Subscription plans seeded successfully!")
}
