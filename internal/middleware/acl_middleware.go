package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
	"github.com/Amarjit99/JobPortal-sub003/pkg/database"
	"github.com/Amarjit99/JobPortal-sub003/pkg/utils/jwt"
)

// CheckJobOwnership ensures the caller owns the job posting in the route.
func CheckJobOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		jobID := c.Params("id")

		var job model.Job
		if err := database.DB.First(&job, jobID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}

		if job.EmployerID != claims.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this job",
			})
		}

		c.Locals("job", &job)
		return c.Next()
	}
}
