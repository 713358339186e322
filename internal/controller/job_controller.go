package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
	"github.com/Amarjit99/JobPortal-sub003/pkg/database"
	"github.com/Amarjit99/JobPortal-sub003/pkg/entitlement"
	"github.com/Amarjit99/JobPortal-sub003/pkg/utils/jwt"
)

type JobInput struct {
	Title       string  `json:"title" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
}

// CreateJob posts a new job. The route runs behind RequireCredits, so an
// active subscription with a free job-posting slot is already in locals;
// the credit is consumed atomically here before the posting is created.
func CreateJob(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	sub := c.Locals("subscription").(*model.UserSubscription)

	input := new(JobInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	check, err := entitlement.Consume(database.DB, sub, entitlement.ActionJobPosting, 1)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update usage",
		})
	}
	if !check.Allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": check.Reason,
		})
	}

	job := model.Job{
		Title:       input.Title,
		Type:        model.JobType(input.Type),
		Status:      model.JobStatusOpen,
		Description: input.Description,
		Location:    input.Location,
		SalaryMin:   input.SalaryMin,
		SalaryMax:   input.SalaryMax,
		EmployerID:  claims.UserID,
	}

	if err := database.DB.Create(&job).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create job",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// FeatureJob promotes an owned job posting to the featured listing.
// Featuring is idempotent: an already-featured job does not consume a
// second credit.
func FeatureJob(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	job := c.Locals("job").(*model.Job)

	if job.IsFeatured {
		return c.JSON(fiber.Map{
			"message": "Job is already featured",
			"job":     job,
		})
	}

	sub, err := entitlement.ActiveSubscription(database.DB, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription",
		})
	}
	if sub == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	check, err := entitlement.Consume(database.DB, sub, entitlement.ActionFeaturedJob, 1)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update usage",
		})
	}
	if !check.Allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": check.Reason,
		})
	}

	if err := database.DB.Model(job).Update("is_featured", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not feature job",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Job featured successfully",
		"job":     job,
	})
}

func ListMyJobs(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var jobs []model.Job
	if err := database.DB.Where("employer_id = ?", claims.UserID).
		Order("created_at DESC").Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch jobs",
		})
	}

	return c.JSON(jobs)
}

func ListOpenJobs(c *fiber.Ctx) error {
	var jobs []model.Job
	if err := database.DB.Where("status = ?", model.JobStatusOpen).
		Order("is_featured DESC, created_at DESC").Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch jobs",
		})
	}

	return c.JSON(jobs)
}

func CloseJob(c *fiber.Ctx) error {
	job := c.Locals("job").(*model.Job)

	if err := database.DB.Model(job).Update("status", model.JobStatusClosed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not close job",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Job closed successfully",
	})
}
