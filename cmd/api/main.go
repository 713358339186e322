package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/Amarjit99/JobPortal-sub003/internal/controller"
	"github.com/Amarjit99/JobPortal-sub003/internal/middleware"
	"github.com/Amarjit99/JobPortal-sub003/internal/model"
	appconfig "github.com/Amarjit99/JobPortal-sub003/pkg/config"
	"github.com/Amarjit99/JobPortal-sub003/pkg/cron"
	"github.com/Amarjit99/JobPortal-sub003/pkg/database"
	"github.com/Amarjit99/JobPortal-sub003/pkg/email"
	"github.com/Amarjit99/JobPortal-sub003/pkg/entitlement"
	"github.com/Amarjit99/JobPortal-sub003/pkg/seed"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public job board
	api.Get("/jobs", controller.ListOpenJobs)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Job routes with subscription checks
	jobs := protected.Group("/jobs")
	jobs.Get("/my", controller.ListMyJobs)
	jobs.Post("/", middleware.RequireRole("recruiter"), middleware.RequireCredits(entitlement.ActionJobPosting), controller.CreateJob)
	jobs.Post("/:id/feature", middleware.CheckJobOwnership(), controller.FeatureJob)
	jobs.Put("/:id/close", middleware.CheckJobOwnership(), controller.CloseJob)

	// Resume routes
	resumes := protected.Group("/resumes")
	resumes.Post("/upload", middleware.RequireRole("candidate"), controller.UploadResume)
	resumes.Post("/unlock", middleware.RequireRole("recruiter"), controller.UnlockResume)
	resumes.Get("/access/:candidate_id", middleware.RequireRole("recruiter"), controller.CheckResumeAccess)
	resumes.Get("/credits", controller.GetCreditBalance)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", controller.ListPlans)

	subProtected := subscriptions.Use(middleware.AuthMiddleware())
	subProtected.Get("/my", controller.GetMySubscription)
	subProtected.Get("/invoices", controller.GetMyInvoices)
	subProtected.Post("/cancel", controller.CancelSubscription)

	// Payment routes
	payments := api.Group("/payments", middleware.AuthMiddleware())
	payments.Post("/create-order", middleware.RequireRole("recruiter"), controller.CreateOrder)
	payments.Post("/verify", controller.VerifyPayment)
	payments.Post("/:id/refund", middleware.RequireRole("admin"), controller.RefundPayment)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := appconfig.Load()

	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		if err := email.InitEmailService(apiKey); err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
	}

	controller.InitSubscriptionController()
	controller.InitPaymentController(cfg.Razorpay)
	cron.InitSubscriptionExpiryCron()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(dbURL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Plan{},
		&model.UserSubscription{},
		&model.Job{},
		&model.UnlockedResume{},
		&model.Payment{},
		&model.Invoice{},
		&model.InvoiceSequence{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedSubscriptionPlans(database.DB)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	port := cfg.Server.Port
	log.Printf("Server is running on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
