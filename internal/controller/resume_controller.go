package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
	"github.com/Amarjit99/JobPortal-sub003/pkg/database"
	"github.com/Amarjit99/JobPortal-sub003/pkg/entitlement"
	"github.com/Amarjit99/JobPortal-sub003/pkg/resume"
	"github.com/Amarjit99/JobPortal-sub003/pkg/utils/jwt"
	"github.com/Amarjit99/JobPortal-sub003/pkg/utils/storage"
)

type UnlockResumeInput struct {
	CandidateID uint `json:"candidate_id" validate:"required"`
	JobID       uint `json:"job_id"`
}

// UnlockResume spends a resume credit to reveal a candidate's resume.
// Repeat requests for the same candidate are free.
func UnlockResume(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(UnlockResumeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var candidate model.User
	if err := database.DB.First(&candidate, input.CandidateID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	result, err := resume.Unlock(database.DB, claims.UserID, candidate.ID, input.JobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not unlock resume",
		})
	}
	if result.Denied {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": result.Reason,
		})
	}

	response := fiber.Map{
		"message":          "Resume unlocked successfully",
		"already_unlocked": result.AlreadyUnlocked,
		"unlock":           result.Record,
	}
	if result.AlreadyUnlocked {
		response["message"] = "Resume already unlocked"
	}

	if candidate.ResumeKey != "" {
		url, err := storage.PresignResumeURL(candidate.ResumeKey)
		if err != nil {
			log.Printf("Could not presign resume URL for candidate %d: %v", candidate.ID, err)
		} else {
			response["download_url"] = url
		}
	}

	return c.JSON(response)
}

// CheckResumeAccess reports whether the recruiter has already unlocked the
// candidate, without consuming anything.
func CheckResumeAccess(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	candidateID, err := c.ParamsInt("candidate_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	record, hasAccess, err := resume.CheckAccess(database.DB, claims.UserID, uint(candidateID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check resume access",
		})
	}

	response := fiber.Map{"has_access": hasAccess}
	if record != nil {
		response["unlocked_at"] = record.UnlockedAt
		response["expires_at"] = record.ExpiresAt
	}

	return c.JSON(response)
}

// UploadResume stores the authenticated candidate's resume file.
func UploadResume(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Resume file is required",
		})
	}

	objectKey, err := storage.UploadResume(file, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := database.DB.Model(&model.User{}).
		Where("id = ?", claims.UserID).
		Update("resume_key", objectKey).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save resume",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Resume uploaded successfully",
	})
}

// GetCreditBalance reports remaining credits per action kind for the
// caller's active subscription.
func GetCreditBalance(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	sub, err := entitlement.ActiveSubscription(database.DB, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription",
		})
	}
	if sub == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	balances := entitlement.Balances(sub)
	report := make([]fiber.Map, 0, len(balances))
	for _, b := range balances {
		report = append(report, fiber.Map{
			"kind":      b.Kind,
			"used":      b.Used,
			"limit":     b.Limit,
			"remaining": b.Remaining(),
		})
	}

	return c.JSON(fiber.Map{
		"plan":     sub.Plan.Name,
		"balances": report,
	})
}
