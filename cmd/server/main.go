package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/backends"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.IdentityDriver == "postgres" && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if len(cfg.AdminAllowList()) == 0 {
		slog.Warn("ADMIN_EMAILS is empty; nobody can grant admin access")
	}

	ctx := context.Background()
	b, err := backends.Open(ctx, cfg)
	if err != nil {
		slog.Error("backend initialization failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch) and log cleanup (30-day retention)
	var pgLogHandler *logging.PGHandler
	cleanupDone := make(chan struct{})
	if b.DB != nil {
		pgLogHandler = logging.NewPGHandler(b.DB)
		logging.Setup(cfg.AppEnv, pgLogHandler)
		logging.StartCleanup(b.DB, cleanupDone)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(registry); err != nil {
		slog.Error("metrics registration failed", "error", err)
		os.Exit(1)
	}

	// Roles
	policy := roles.NewPolicy(cfg.AdminAllowList())
	directory := roles.NewClinicDirectory(b.Store.Clinics(), b.Cache, cfg.ClinicCacheTTL)
	resolver := roles.NewResolver(b.Identity, policy, directory)

	// Services
	authService := services.NewAuthService(b.Identity, resolver)
	claimService := services.NewClaimService(b.Identity, policy)
	clinicService := services.NewClinicService(b.Identity, b.Store, directory)
	patientService := services.NewPatientService(b.Identity, b.Store)
	adService := services.NewAdService(b.Store.Ads(), cfg.AdRotationInterval)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(b.Identity, b.Store, b.Cache)
	rolesHandler := handlers.NewRolesHandler(claimService)
	clinicHandler := handlers.NewClinicHandler(clinicService)
	patientHandler := handlers.NewPatientHandler(patientService)
	adHandler := handlers.NewAdHandler(adService, directory)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, policy, registry,
		authHandler, healthHandler, rolesHandler, clinicHandler, patientHandler, adHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b.Close(shutdownCtx)

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
