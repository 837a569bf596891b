package handlers

import (
	"context"
	"strconv"

	"cleanroster/internal/app"
	reservationController "cleanroster/internal/controllers/reservations"
	"cleanroster/internal/handlers/middleware"
	"cleanroster/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	Handler
	reservationController reservationController.ReservationControllerInterface
}

func NewReservationHandler(app app.App, router fiber.Router) *ReservationHandler {
	return &ReservationHandler{
		reservationController: app.Controllers.Reservation,
		Handler:               newHandler(app, router, "reservation_handler"),
	}
}

func (h *ReservationHandler) Register() {
	reservations := h.router.Group("/reservations", h.middleware.RequireAuth())
	reservations.Post("/", h.middleware.RequireRole(models.RoleClient), h.createReservation)
	reservations.Get("/client", h.middleware.RequireRole(models.RoleClient), h.clientReservations)
	reservations.Get("/chief", h.middleware.RequireRole(models.RoleChief), h.chiefReservations)
	reservations.Get("/:id", h.getReservation)
	reservations.Put("/:id/approve", h.middleware.RequireRole(models.RoleAdmin), h.approveByAdmin)
	reservations.Put("/:id/client-approve", h.middleware.RequireRole(models.RoleClient), h.approveByClient)
	reservations.Post("/:id/rate", h.rateReservation)
}

func (h *ReservationHandler) createReservation(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	var req reservationController.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	reservation, err := h.reservationController.Create(c.UserContext(), user, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create reservation")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reservation": reservation,
	})
}

func (h *ReservationHandler) clientReservations(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	reservations, err := h.reservationController.ClientReservations(c.UserContext(), user)
	if err != nil {
		return h.respondError(c, err, "Failed to list reservations")
	}

	return c.JSON(fiber.Map{
		"reservations": reservations,
	})
}

func (h *ReservationHandler) chiefReservations(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	reservations, err := h.reservationController.ChiefReservations(c.UserContext(), user)
	if err != nil {
		return h.respondError(c, err, "Failed to list reservations")
	}

	return c.JSON(fiber.Map{
		"reservations": reservations,
	})
}

func (h *ReservationHandler) getReservation(c *fiber.Ctx) error {
	return h.withReservation(c, "Failed to get reservation", h.reservationController.Get)
}

func (h *ReservationHandler) approveByAdmin(c *fiber.Ctx) error {
	return h.withReservation(c, "Failed to approve reservation", h.reservationController.ApproveByAdmin)
}

func (h *ReservationHandler) approveByClient(c *fiber.Ctx) error {
	return h.withReservation(c, "Failed to approve reservation", h.reservationController.ApproveByClient)
}

func (h *ReservationHandler) rateReservation(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reservation ID")
	}

	rating, err := strconv.Atoi(c.Query("rating"))
	if err != nil {
		return badRequest(c, "rating must be an integer between 1 and 5")
	}

	result, err := h.reservationController.Rate(c.UserContext(), user, reservationID, rating)
	if err != nil {
		return h.respondError(c, err, "Failed to rate reservation")
	}

	return c.JSON(result)
}

func (h *ReservationHandler) withReservation(
	c *fiber.Ctx,
	fallback string,
	action func(ctx context.Context, user *models.User, reservationID uuid.UUID) (*models.Reservation, error),
) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid reservation ID")
	}

	reservation, err := action(c.UserContext(), user, reservationID)
	if err != nil {
		return h.respondError(c, err, fallback)
	}

	return c.JSON(fiber.Map{
		"reservation": reservation,
	})
}
