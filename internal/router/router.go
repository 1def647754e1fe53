package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/acadex/gradebook-api/internal/config"
	"github.com/acadex/gradebook-api/internal/handler"
	"github.com/acadex/gradebook-api/internal/middleware"
	"github.com/acadex/gradebook-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler    *handler.StudentHandler
	SubjectHandler    *handler.SubjectHandler
	EvaluationHandler *handler.EvaluationHandler
	EnrollmentHandler *handler.EnrollmentHandler
	GradeHandler      *handler.GradeHandler
	ReportHandler     *handler.ReportHandler
	ActivityHandler   *handler.ActivityHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil. When authentication
	// is enabled the gradebook is instructor-facing, so the whole surface
	// is role-gated as well.
	guards := []fiber.Handler{deps.JWTMiddleware, middleware.RequireRole("instructor", "admin")}
	if deps.JWTMiddleware == nil {
		guards = []fiber.Handler{func(c *fiber.Ctx) error { return c.Next() }}
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", guards...))
	}

	if deps.SubjectHandler != nil {
		subjects := api.Group("/subjects", guards...)
		deps.SubjectHandler.Register(subjects)

		if deps.EvaluationHandler != nil {
			deps.EvaluationHandler.RegisterSubjectRoutes(subjects)
		}
		if deps.EnrollmentHandler != nil {
			deps.EnrollmentHandler.RegisterSubjectRoutes(subjects)
		}
		if deps.ReportHandler != nil {
			// Exports fan out emails and stream files, so they get a
			// tighter per-user limit than the rest of the API.
			subjects.Use("/:id/report/export.csv", middleware.RateLimit("report_export", 5, time.Minute))
			subjects.Use("/:id/report/email", middleware.RateLimit("report_email", 2, time.Minute))
			deps.ReportHandler.RegisterSubjectRoutes(subjects)
		}
	}

	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.Register(api.Group("/evaluations", guards...))
	}

	if deps.GradeHandler != nil {
		deps.GradeHandler.Register(api.Group("/grades", guards...))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activity", guards...))
	}
}
