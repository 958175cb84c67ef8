package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/clinic-api/internal/config"
	"github.com/careops/clinic-api/internal/email"
	adminHandler "github.com/careops/clinic-api/internal/handler/admin"
	appointmentHandler "github.com/careops/clinic-api/internal/handler/appointment"
	messageHandler "github.com/careops/clinic-api/internal/handler/message"
	registrationHandler "github.com/careops/clinic-api/internal/handler/registration"
	"github.com/careops/clinic-api/internal/middleware"
	"github.com/careops/clinic-api/internal/repository/postgres"
	"github.com/careops/clinic-api/internal/router"
	accessService "github.com/careops/clinic-api/internal/service/access"
	adminService "github.com/careops/clinic-api/internal/service/admin"
	appointmentService "github.com/careops/clinic-api/internal/service/appointment"
	auditService "github.com/careops/clinic-api/internal/service/audit"
	conversationService "github.com/careops/clinic-api/internal/service/conversation"
	identityService "github.com/careops/clinic-api/internal/service/identity"
	registrationService "github.com/careops/clinic-api/internal/service/registration"
	"github.com/careops/clinic-api/pkg/auth"
	"github.com/careops/clinic-api/pkg/logger"
	"github.com/careops/clinic-api/pkg/metrics"
	"github.com/careops/clinic-api/pkg/security"
	"github.com/careops/clinic-api/pkg/validator"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Logging.Pretty,
	})
	zerolog.SetGlobalLevel(level)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	base := postgres.NewBaseRepository(db)
	doctorRepo := postgres.NewDoctorRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	registrationRepo := postgres.NewRegistrationRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	messageRepo := postgres.NewMessageRepository(base)
	auditRepo := postgres.NewAuditRepository(base)

	validate := validator.New()
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	var mailer email.Service
	if cfg.SMTP.Enabled() {
		mailer = email.NewSMTPService(cfg.SMTP)
	} else {
		log.Warn("smtp not configured, registration emails disabled")
		mailer = email.NewNoop()
	}

	resolver := identityService.NewService(doctorRepo, patientRepo)
	guard := accessService.NewGuard(resolver)
	auditSvc := auditService.NewService(auditRepo)
	appointmentSvc := appointmentService.NewService(guard, resolver, appointmentRepo)
	registrationSvc := registrationService.NewService(guard, registrationRepo, hasher, mailer, validate, log)
	conversationSvc := conversationService.NewService(resolver, guard, messageRepo, validate)
	adminSvc := adminService.NewService(guard, doctorRepo, patientRepo, appointmentRepo, registrationRepo, auditSvc, validate)

	m := metrics.NewMetrics("clinic", "api")
	authMw := middleware.NewAuthMiddleware(auth.NewTokenVerifier(cfg.JWT.Secret))

	engine := router.New(cfg, authMw, m, router.Handlers{
		Admin:        adminHandler.NewHandler(adminSvc, registrationSvc, appointmentSvc),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc),
		Message:      messageHandler.NewHandler(conversationSvc),
		Registration: registrationHandler.NewHandler(registrationSvc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "forced shutdown")
	}
	log.Info("server stopped")
}
