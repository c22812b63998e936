// app.go - Fiber application assembly
package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/jleboube/scout/handlers"
	"github.com/jleboube/scout/middleware"
	"github.com/jleboube/scout/services"
)

type appDeps struct {
	db       *gorm.DB
	sessions *services.SessionStore
	uploads  *services.UploadStore
	codes    []string
}

// newApp wires middleware, services and routes onto a configured Fiber app.
func newApp(deps appDeps) *fiber.App {
	authService := services.NewAuthService(deps.db, deps.codes)
	reportService := services.NewReportService(deps.db)

	authHandler := handlers.NewAuthHandler(authService, deps.sessions)
	teamHandler := handlers.NewTeamHandler(deps.db)
	reportHandler := handlers.NewReportHandler(reportService, deps.uploads)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    8 * 1024 * 1024, // above the 5MB attachment ceiling
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	requireAuth := middleware.RequireAuth(deps.sessions)

	// API Routes
	api := app.Group("/api")

	api.Get("/teams", teamHandler.GetTeams)

	// Auth routes with stricter rate limiting
	api.Post("/register", middleware.AuthRateLimitMiddleware(), authHandler.Register)
	api.Post("/login", middleware.AuthRateLimitMiddleware(), authHandler.Login)
	api.Post("/logout", authHandler.Logout)
	api.Get("/user", requireAuth, authHandler.GetCurrentUser)

	// Report routes (require authentication)
	reportGroup := api.Group("/reports")
	reportGroup.Use(requireAuth)
	reportGroup.Post("/", reportHandler.CreateReport)
	reportGroup.Get("/", reportHandler.GetReports)
	reportGroup.Get("/:id", reportHandler.GetReport)
	reportGroup.Put("/:id", reportHandler.UpdateReport)
	reportGroup.Delete("/:id", reportHandler.DeleteReport)

	// Serve uploaded spray charts
	app.Static("/uploads", deps.uploads.Dir())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
