package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/avdeev21/accounts/api/http/handlers"
	"github.com/avdeev21/accounts/api/http/middleware"
)

// Register wires all HTTP routes onto given Fiber app. The throttle
// middleware runs ahead of every route so abusive clients are rejected
// before any handler logic.
func Register(app *fiber.App, throttle *middleware.Throttle, auth *handlers.AuthHandler,
	password *handlers.PasswordHandler, account *handlers.AccountHandler, health *handlers.HealthHandler) {
	app.Use(throttle.Handle)

	v1 := app.Group("/v1")

	// Health endpoint for probes/monitoring
	v1.Get("/health", health.Health)

	// Connectivity echo endpoints
	v1.Get("/", account.RequestGet)
	v1.Post("/", account.RequestPost)

	// Authentication and password reset
	v1.Post("/auth", auth.Auth)
	v1.Post("/reset_password", password.ResetPassword)
	v1.Put("/update_password", password.UpdatePassword)

	// Account utilities
	v1.Get("/check_email", account.CheckEmail)
	version := v1.Group("/version")
	version.Get("/ios", account.VersionIOS)
	version.Get("/android", account.VersionAndroid)
}
