package handlers

import (
	"cleanroster/internal/app"
	userController "cleanroster/internal/controllers/users"
	"cleanroster/internal/handlers/middleware"
	"cleanroster/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		userController: app.Controllers.User,
		Handler:        newHandler(app, router, "user_handler"),
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth())
	users.Get("/me", h.getCurrentUser)
	users.Get("/", h.middleware.RequireRole(models.RoleAdmin), h.listUsers)
}

func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	profile, err := h.userController.Profile(middleware.GetUser(c))
	if err != nil {
		return h.respondError(c, err, "Failed to load profile")
	}

	return c.JSON(fiber.Map{
		"user": profile,
	})
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	profiles, err := h.userController.ListByRole(c.UserContext(), user, c.Query("role"))
	if err != nil {
		return h.respondError(c, err, "Failed to list users")
	}

	return c.JSON(fiber.Map{
		"users": profiles,
	})
}
