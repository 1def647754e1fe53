package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acadex/gradebook-api/internal/config"
	"github.com/acadex/gradebook-api/internal/database"
	"github.com/acadex/gradebook-api/internal/handler"
	"github.com/acadex/gradebook-api/internal/middleware"
	"github.com/acadex/gradebook-api/internal/models"
	"github.com/acadex/gradebook-api/internal/repository"
	"github.com/acadex/gradebook-api/internal/router"
	"github.com/acadex/gradebook-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Student{},
		&models.Subject{},
		&models.Evaluation{},
		&models.Enrollment{},
		&models.Grade{},
		&models.ActivityLog{},
	)
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	reportCache := service.NewReportCache(redisClient, cfg.ReportCacheTTL, logger)
	activityService := service.NewActivityService(activityRepo, logger)

	studentService := service.NewStudentService(studentRepo, validate, logger)
	subjectService := service.NewSubjectService(subjectRepo, reportCache, validate, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, subjectRepo, reportCache, validate, activityService, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, subjectRepo, studentRepo, reportCache, activityService, logger)
	gradeService := service.NewGradeService(gradeRepo, evaluationRepo, reportCache, activityService, logger)
	reportService := service.NewReportService(subjectRepo, evaluationRepo, enrollmentRepo, gradeRepo, reportCache, logger)
	exportService := service.NewExportService(reportService, service.NewLogReportDelivery(logger), activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		SubjectHandler:    handler.NewSubjectHandler(subjectService, logger),
		EvaluationHandler: handler.NewEvaluationHandler(evaluationService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		GradeHandler:      handler.NewGradeHandler(gradeService, logger),
		ReportHandler:     handler.NewReportHandler(reportService, exportService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
