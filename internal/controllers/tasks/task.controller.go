package taskController

import (
	"context"
	"time"

	"cleanroster/config"
	"cleanroster/internal/events"
	. "cleanroster/internal/models"
	"cleanroster/internal/repositories"
	"cleanroster/internal/services"
	"cleanroster/internal/types"
	"cleanroster/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type TaskController struct {
	store      services.Store
	taskFilter *services.TaskFilterService
	statistics *services.StatisticsService
	publisher  events.Publisher
	Config     config.Config
	log        logger.Logger
}

type ListTasksRequest struct {
	Status   string `query:"status"    json:"status"    validate:"omitempty,taskstatus"`
	DateFrom string `query:"date_from" json:"date_from"`
	DateTo   string `query:"date_to"   json:"date_to"`
	SortBy   string `query:"sort_by"   json:"sort_by"`
	SortDesc bool   `query:"sort_desc" json:"sort_desc"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,taskstatus"`
	Notes  *string `json:"notes"  validate:"omitempty,max=1000"`
}

type StatisticsRequest struct {
	StartDate string `query:"start_date" json:"start_date"`
	EndDate   string `query:"end_date"   json:"end_date"`
}

type TaskControllerInterface interface {
	List(ctx context.Context, user *User, request *ListTasksRequest) ([]*Reservation, error)
	UpdateStatus(ctx context.Context, user *User, taskID uuid.UUID, request *UpdateStatusRequest) (*Reservation, error)
	TaskStatistics(ctx context.Context, user *User) (types.TaskStats, error)
	Workload(ctx context.Context, user *User) ([]types.GroupWorkload, error)
	Calendar(ctx context.Context, user *User, month, year *int) (map[string][]*Reservation, error)
	Dashboard(ctx context.Context, user *User) (types.TaskDashboard, error)
	ReservationStatistics(ctx context.Context, user *User, request *StatisticsRequest) (types.StatsReport, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	publisher events.Publisher,
	config config.Config,
) TaskControllerInterface {
	return NewWithStore(repos.Store, services, publisher, config)
}

func NewWithStore(
	store services.Store,
	services services.Service,
	publisher events.Publisher,
	config config.Config,
) TaskControllerInterface {
	return &TaskController{
		store:      store,
		taskFilter: services.TaskFilter,
		statistics: services.Statistics,
		publisher:  publisher,
		Config:     config,
		log:        logger.New("taskController"),
	}
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := utils.ParseDate(value)
	if err != nil {
		return nil, types.Errorf(types.ErrValidation, "%s: %s", field, err.Error())
	}
	return &parsed, nil
}

func (c *TaskController) List(
	ctx context.Context,
	user *User,
	request *ListTasksRequest,
) ([]*Reservation, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	filters := types.TaskFilters{
		SortBy:   types.SortField(request.SortBy),
		SortDesc: request.SortDesc,
	}

	if request.Status != "" {
		status, err := ParseTaskStatus(request.Status)
		if err != nil {
			return nil, types.Errorf(types.ErrValidation, "%s", err.Error())
		}
		filters.Status = &status
	}

	var err error
	if filters.DateFrom, err = parseOptionalDate("date_from", request.DateFrom); err != nil {
		return nil, err
	}
	if filters.DateTo, err = parseOptionalDate("date_to", request.DateTo); err != nil {
		return nil, err
	}

	return c.taskFilter.FilteredView(ctx, user, filters)
}

// UpdateStatus lets a chief move a task of their own group through
// pending, in_progress and completed. Tasks of other groups are reported
// as not found.
func (c *TaskController) UpdateStatus(
	ctx context.Context,
	user *User,
	taskID uuid.UUID,
	request *UpdateStatusRequest,
) (*Reservation, error) {
	log := c.log.TraceFromContext(ctx).Function("UpdateStatus")

	if user == nil {
		return nil, types.Errorf(types.ErrUnauthorized, "authentication required")
	}
	if user.Role != RoleChief {
		return nil, types.Errorf(types.ErrForbidden, "only chiefs can update task status")
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	status, err := ParseTaskStatus(request.Status)
	if err != nil {
		return nil, types.Errorf(types.ErrValidation, "%s", err.Error())
	}

	var task *Reservation
	err = c.store.WithinTransaction(ctx, func(ctx context.Context) error {
		group, err := c.store.FindGroupByChief(ctx, user.ID)
		if err != nil {
			return err
		}
		if group == nil {
			return types.Errorf(types.ErrNotFound, "task %s", taskID)
		}

		current, err := c.store.GetReservation(ctx, taskID)
		if err != nil {
			return err
		}
		if !current.IsAssignedTo(group.ID) {
			return types.Errorf(types.ErrNotFound, "task %s", taskID)
		}

		if err := c.store.UpdateReservation(ctx, taskID, types.ReservationUpdate{
			Status: &status,
			Notes:  request.Notes,
		}); err != nil {
			return err
		}

		task, err = c.store.GetReservation(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, events.RESERVATIONS_CHANNEL, events.Event{
			Type:   events.TASK_STATUS_UPDATED,
			UserID: &user.ID,
			Data: map[string]any{
				"reservationId": task.ID.String(),
				"status":        task.Status,
			},
		}); err != nil {
			log.Warn("failed to publish status event", "taskID", taskID, "error", err)
		}
	}

	log.Info("task status updated", "taskID", taskID, "status", status, "chiefID", user.ID)
	return task, nil
}

func (c *TaskController) TaskStatistics(ctx context.Context, user *User) (types.TaskStats, error) {
	return c.statistics.TaskStatistics(ctx, user)
}

func (c *TaskController) Workload(ctx context.Context, user *User) ([]types.GroupWorkload, error) {
	return c.statistics.Workload(ctx, user)
}

func (c *TaskController) Calendar(
	ctx context.Context,
	user *User,
	month, year *int,
) (map[string][]*Reservation, error) {
	if (month == nil) != (year == nil) {
		return nil, types.Errorf(types.ErrValidation, "month and year must be given together")
	}
	return c.statistics.Calendar(ctx, user, month, year)
}

func (c *TaskController) Dashboard(ctx context.Context, user *User) (types.TaskDashboard, error) {
	return c.statistics.Dashboard(ctx, user)
}

func (c *TaskController) ReservationStatistics(
	ctx context.Context,
	user *User,
	request *StatisticsRequest,
) (types.StatsReport, error) {
	start, err := parseOptionalDate("start_date", request.StartDate)
	if err != nil {
		return types.StatsReport{}, err
	}
	end, err := parseOptionalDate("end_date", request.EndDate)
	if err != nil {
		return types.StatsReport{}, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return types.StatsReport{}, types.Errorf(types.ErrValidation, "end_date is before start_date")
	}

	return c.statistics.Statistics(ctx, user, types.DateRange{Start: start, End: end})
}
