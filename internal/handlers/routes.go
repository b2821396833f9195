package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	CV        *CVHandler
	Report    *ReportHandler
	Interview *InterviewHandler
}

// RegisterRoutes mounts the API under /api/v1. requireAuth guards every
// route except registration, login, token verification and the health check.
func RegisterRoutes(app *fiber.App, h *Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.HandleRegister)
	auth.Post("/login", h.Auth.HandleLogin)
	auth.Post("/refresh", requireAuth, h.Auth.HandleRefresh)
	auth.Post("/verify", h.Auth.HandleVerify)

	cv := api.Group("/cv", requireAuth)
	cv.Post("/", h.CV.HandleUpload)
	cv.Get("/", h.CV.HandleList)
	cv.Get("/:id/skills", h.CV.HandleSkills)
	cv.Delete("/:id", h.CV.HandleDelete)
	cv.Post("/:id/reports", h.Report.HandleGenerate)
	cv.Get("/:id/reports", h.Report.HandleList)

	api.Get("/reports/:id", requireAuth, h.Report.HandleGet)

	interviews := api.Group("/interviews", requireAuth)
	interviews.Post("/", h.Interview.HandleStart)
	interviews.Get("/", h.Interview.HandleList)
	interviews.Get("/:id", h.Interview.HandleGet)
	interviews.Post("/:id/answers", h.Interview.HandleSubmitAnswer)
}
