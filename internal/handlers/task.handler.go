package handlers

import (
	"strconv"

	"cleanroster/internal/app"
	taskController "cleanroster/internal/controllers/tasks"
	"cleanroster/internal/handlers/middleware"
	"cleanroster/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TaskHandler struct {
	Handler
	taskController taskController.TaskControllerInterface
}

func NewTaskHandler(app app.App, router fiber.Router) *TaskHandler {
	return &TaskHandler{
		taskController: app.Controllers.Task,
		Handler:        newHandler(app, router, "task_handler"),
	}
}

func (h *TaskHandler) Register() {
	tasks := h.router.Group("/tasks", h.middleware.RequireAuth())
	tasks.Get("/", h.listTasks)
	tasks.Get("/statistics", h.taskStatistics)
	tasks.Get("/workload", h.middleware.RequireRole(models.RoleChief, models.RoleAdmin), h.workload)
	tasks.Get("/calendar", h.calendar)
	tasks.Get("/dashboard", h.dashboard)
	tasks.Get("/reservation-statistics", h.reservationStatistics)
	tasks.Put("/:id/status", h.middleware.RequireRole(models.RoleChief), h.updateStatus)
}

func (h *TaskHandler) listTasks(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	var req taskController.ListTasksRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	tasks, err := h.taskController.List(c.UserContext(), user, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to list tasks")
	}

	return c.JSON(fiber.Map{
		"tasks": tasks,
	})
}

func (h *TaskHandler) updateStatus(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	var req taskController.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.taskController.UpdateStatus(c.UserContext(), user, taskID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to update task status")
	}

	return c.JSON(fiber.Map{
		"task": task,
	})
}

func (h *TaskHandler) taskStatistics(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	stats, err := h.taskController.TaskStatistics(c.UserContext(), user)
	if err != nil {
		return h.respondError(c, err, "Failed to compute task statistics")
	}

	return c.JSON(stats)
}

func (h *TaskHandler) workload(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	workload, err := h.taskController.Workload(c.UserContext(), user)
	if err != nil {
		return h.respondError(c, err, "Failed to compute workload")
	}

	return c.JSON(fiber.Map{
		"workload": workload,
	})
}

func (h *TaskHandler) calendar(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	month, err := optionalInt(c, "month")
	if err != nil {
		return badRequest(c, "month must be an integer")
	}
	year, err := optionalInt(c, "year")
	if err != nil {
		return badRequest(c, "year must be an integer")
	}

	calendar, err := h.taskController.Calendar(c.UserContext(), user, month, year)
	if err != nil {
		return h.respondError(c, err, "Failed to build calendar")
	}

	return c.JSON(fiber.Map{
		"calendar": calendar,
	})
}

func (h *TaskHandler) dashboard(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	dashboard, err := h.taskController.Dashboard(c.UserContext(), user)
	if err != nil {
		return h.respondError(c, err, "Failed to build dashboard")
	}

	return c.JSON(dashboard)
}

func (h *TaskHandler) reservationStatistics(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return unauthorized(c)
	}

	var req taskController.StatisticsRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	report, err := h.taskController.ReservationStatistics(c.UserContext(), user, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to compute statistics")
	}

	return c.JSON(report)
}

func optionalInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
