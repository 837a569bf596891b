package handlers

import (
	"cleanroster/internal/app"
	"cleanroster/internal/handlers/middleware"
	"cleanroster/internal/metrics"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func newHandler(app app.App, router fiber.Router, file string) Handler {
	return Handler{
		log:        logger.New("handlers").File(file),
		router:     router,
		middleware: app.Middleware,
	}
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Get("/metrics", metrics.Handler())

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewUserHandler(*app, api).Register()
	NewGroupHandler(*app, api).Register()
	NewReservationHandler(*app, api).Register()
	NewTaskHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}
