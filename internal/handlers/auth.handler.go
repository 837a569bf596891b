package handlers

import (
	"cleanroster/internal/app"
	authController "cleanroster/internal/controllers/auth"
	"cleanroster/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler:        newHandler(app, router, "auth_handler"),
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/signup", h.signup)
	auth.Post("/login", h.login)
	auth.Post("/logout", h.middleware.RequireAuth(), h.logout)
}

func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var req authController.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.authController.Signup(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to sign up")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": profile,
	})
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req authController.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	response, err := h.authController.Login(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to log in")
	}

	return c.JSON(response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return unauthorized(c)
	}

	if err := h.authController.Logout(c.UserContext(), claims); err != nil {
		return h.respondError(c, err, "Failed to log out")
	}

	return c.JSON(fiber.Map{
		"message": "Logout successful",
	})
}
