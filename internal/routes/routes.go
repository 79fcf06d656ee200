package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	policy *roles.Policy,
	gatherer prometheus.Gatherer,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	rolesHandler *handlers.RolesHandler,
	clinicHandler *handlers.ClinicHandler,
	patientHandler *handlers.PatientHandler,
	adHandler *handlers.AdHandler,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	api.Use(middleware.RequestContext(cfg.RequestTimeout))

	api.Get("/health", healthHandler.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)

	// Session resolution never fails; bad tokens resolve to the denied view.
	api.Get("/session", authHandler.Session)

	protected := middleware.JWTProtected(cfg, policy)

	// The first admin is bootstrapped through the allow-list, so this route
	// checks the caller's email rather than the admin claim.
	api.Post("/roles/admin", protected, middleware.AllowListed(policy), rolesHandler.SetAdmin)

	admin := api.Group("/admin", protected, middleware.RequireAdmin())
	admin.Get("/clinics", clinicHandler.List)
	admin.Post("/clinics", clinicHandler.Create)
	admin.Get("/clinics/:id", clinicHandler.Get)
	admin.Put("/clinics/:id", clinicHandler.Update)
	admin.Delete("/clinics/:id", clinicHandler.Delete)
	admin.Get("/ads/:pool", adHandler.List)
	admin.Post("/ads/:pool", adHandler.Create)
	admin.Delete("/ads/:pool/:id", adHandler.Delete)

	clinic := api.Group("/clinic", protected, middleware.RequireClinic())
	clinic.Get("/", clinicHandler.Mine)
	clinic.Get("/patients", patientHandler.List)
	clinic.Post("/patients", patientHandler.Create)
	clinic.Get("/patients/:id", patientHandler.Get)
	clinic.Put("/patients/:id", patientHandler.Update)
	clinic.Delete("/patients/:id", patientHandler.Delete)
	clinic.Get("/report", patientHandler.Report)
	clinic.Post("/messages/selection", patientHandler.Selection)

	api.Get("/patient/me", protected, middleware.RequirePatient(), patientHandler.Me)

	api.Get("/ads/:pool/current", protected, middleware.RequireView(roles.ViewClinic, roles.ViewClient), adHandler.Current)
}
