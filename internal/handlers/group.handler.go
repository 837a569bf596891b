package handlers

import (
	"cleanroster/internal/app"
	groupController "cleanroster/internal/controllers/groups"
	"cleanroster/internal/handlers/middleware"
	"cleanroster/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GroupHandler struct {
	Handler
	groupController groupController.GroupControllerInterface
}

func NewGroupHandler(app app.App, router fiber.Router) *GroupHandler {
	return &GroupHandler{
		groupController: app.Controllers.Group,
		Handler:         newHandler(app, router, "group_handler"),
	}
}

func (h *GroupHandler) Register() {
	groups := h.router.Group("/groups", h.middleware.RequireAuth())
	groups.Get("/", h.listGroups)
	groups.Get("/:id", h.getGroup)

	adminOnly := h.middleware.RequireRole(models.RoleAdmin)
	groups.Post("/", adminOnly, h.createGroup)
	groups.Put("/:id", adminOnly, h.updateGroup)
	groups.Delete("/:id", adminOnly, h.deleteGroup)
}

func (h *GroupHandler) listGroups(c *fiber.Ctx) error {
	var req groupController.ListGroupsRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	groups, err := h.groupController.List(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to list groups")
	}

	return c.JSON(fiber.Map{
		"groups": groups,
	})
}

func (h *GroupHandler) getGroup(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid group ID")
	}

	group, err := h.groupController.Get(c.UserContext(), groupID)
	if err != nil {
		return h.respondError(c, err, "Failed to get group")
	}

	return c.JSON(fiber.Map{
		"group": group,
	})
}

func (h *GroupHandler) createGroup(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	var req groupController.GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.groupController.Create(c.UserContext(), user, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create group")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"group": group,
	})
}

func (h *GroupHandler) updateGroup(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid group ID")
	}

	var req groupController.GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.groupController.Update(c.UserContext(), user, groupID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update group")
	}

	return c.JSON(fiber.Map{
		"group": group,
	})
}

func (h *GroupHandler) deleteGroup(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid group ID")
	}

	if err := h.groupController.Delete(c.UserContext(), user, groupID); err != nil {
		return h.respondError(c, err, "Failed to delete group")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
