package handlers

import (
	"cleanroster/internal/app"
	adminController "cleanroster/internal/controllers/admin"
	"cleanroster/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler:         newHandler(app, router, "admin_handler"),
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group(
		"/admin",
		h.middleware.RequireAuth(),
		h.middleware.RequireRole(models.RoleAdmin),
	)

	admin.Get("/dashboard", h.dashboard)
	admin.Get("/statistics/snapshot", h.statisticsSnapshot)
	admin.Post("/statistics/snapshot/refresh", h.refreshSnapshot)
}

func (h *AdminHandler) dashboard(c *fiber.Ctx) error {
	dashboard, err := h.adminController.Dashboard(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "Failed to build admin dashboard")
	}

	return c.JSON(dashboard)
}

func (h *AdminHandler) statisticsSnapshot(c *fiber.Ctx) error {
	snapshot, err := h.adminController.StatisticsSnapshot(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "Failed to load statistics snapshot")
	}

	return c.JSON(snapshot)
}

func (h *AdminHandler) refreshSnapshot(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("refreshSnapshot")

	if err := h.adminController.RefreshSnapshot(c.UserContext()); err != nil {
		return h.respondError(c, err, "Failed to refresh statistics snapshot")
	}

	log.Info("Statistics snapshot refresh requested")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Statistics snapshot refresh started",
	})
}
