package reservationController

import (
	"context"

	"cleanroster/config"
	"cleanroster/internal/events"
	. "cleanroster/internal/models"
	"cleanroster/internal/repositories"
	"cleanroster/internal/services"
	"cleanroster/internal/types"
	"cleanroster/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ReservationController struct {
	store      services.Store
	assignment *services.AssignmentService
	rating     *services.RatingService
	taskFilter *services.TaskFilterService
	publisher  events.Publisher
	Config     config.Config
	log        logger.Logger
}

type CreateReservationRequest struct {
	CleaningType string          `json:"cleaning_type" validate:"required,specialization"`
	Address      string          `json:"address"       validate:"required,max=255"`
	HouseNumber  string          `json:"house_number"  validate:"required,max=20"`
	CleaningDate string          `json:"cleaning_date" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Priority     string          `json:"priority"      validate:"omitempty,priority"`
	Notes        string          `json:"notes"         validate:"max=1000"`
}

type ReservationControllerInterface interface {
	Create(ctx context.Context, user *User, request *CreateReservationRequest) (*Reservation, error)
	ClientReservations(ctx context.Context, user *User) ([]*Reservation, error)
	ChiefReservations(ctx context.Context, user *User) ([]*Reservation, error)
	Get(ctx context.Context, user *User, reservationID uuid.UUID) (*Reservation, error)
	ApproveByAdmin(ctx context.Context, user *User, reservationID uuid.UUID) (*Reservation, error)
	ApproveByClient(ctx context.Context, user *User, reservationID uuid.UUID) (*Reservation, error)
	Rate(ctx context.Context, user *User, reservationID uuid.UUID, rating int) (*types.RatingResult, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	publisher events.Publisher,
	config config.Config,
) ReservationControllerInterface {
	return NewWithStore(repos.Store, services, publisher, config)
}

func NewWithStore(
	store services.Store,
	services services.Service,
	publisher events.Publisher,
	config config.Config,
) ReservationControllerInterface {
	return &ReservationController{
		store:      store,
		assignment: services.Assignment,
		rating:     services.Rating,
		taskFilter: services.TaskFilter,
		publisher:  publisher,
		Config:     config,
		log:        logger.New("reservationController"),
	}
}

func requireRole(user *User, role Role) error {
	if user == nil {
		return types.Errorf(types.ErrUnauthorized, "authentication required")
	}
	if user.Role != role {
		return types.Errorf(types.ErrForbidden, "requires role %s", role)
	}
	return nil
}

// Create books a cleaning for the calling client and assigns the best rated
// group for its cleaning type.
func (c *ReservationController) Create(
	ctx context.Context,
	user *User,
	request *CreateReservationRequest,
) (*Reservation, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	if err := requireRole(user, RoleClient); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if request.Price.IsNegative() {
		return nil, types.Errorf(types.ErrValidation, "price must not be negative")
	}

	cleaningType, err := ParseSpecialization(request.CleaningType)
	if err != nil {
		return nil, types.Errorf(types.ErrValidation, "%s", err.Error())
	}

	priority := PriorityMedium
	if request.Priority != "" {
		if priority, err = ParsePriority(request.Priority); err != nil {
			return nil, types.Errorf(types.ErrValidation, "%s", err.Error())
		}
	}

	cleaningDate, err := utils.ParseDate(request.CleaningDate)
	if err != nil {
		return nil, types.Errorf(types.ErrValidation, "cleaning_date: %s", err.Error())
	}

	group, err := c.assignment.AssignGroup(ctx, cleaningType)
	if err != nil {
		return nil, err
	}

	groupID := group.ID
	reservation := &Reservation{
		CleaningType:    cleaningType,
		Address:         request.Address,
		HouseNumber:     request.HouseNumber,
		CleaningDate:    datatypes.Date(cleaningDate),
		Price:           request.Price.Round(2),
		Priority:        priority,
		Notes:           request.Notes,
		ClientID:        user.ID,
		AssignedGroupID: &groupID,
	}

	if err := c.store.CreateReservation(ctx, reservation); err != nil {
		return nil, log.Err("failed to create reservation", err, "clientID", user.ID)
	}

	c.publish(ctx, events.RESERVATION_CREATED, user, reservation)

	log.Info(
		"reservation created",
		"reservationID", reservation.ID,
		"clientID", user.ID,
		"groupID", groupID,
		"cleaningType", cleaningType,
	)
	return reservation, nil
}

func (c *ReservationController) ClientReservations(ctx context.Context, user *User) ([]*Reservation, error) {
	if err := requireRole(user, RoleClient); err != nil {
		return nil, err
	}
	return c.taskFilter.FilteredView(ctx, user, types.TaskFilters{SortBy: types.SortCleaningDate})
}

func (c *ReservationController) ChiefReservations(ctx context.Context, user *User) ([]*Reservation, error) {
	if err := requireRole(user, RoleChief); err != nil {
		return nil, err
	}
	return c.taskFilter.FilteredView(ctx, user, types.TaskFilters{SortBy: types.SortCleaningDate})
}

// Get returns a reservation the caller is allowed to see: its client, the
// chief or members of its group, or an admin.
func (c *ReservationController) Get(
	ctx context.Context,
	user *User,
	reservationID uuid.UUID,
) (*Reservation, error) {
	if user == nil {
		return nil, types.Errorf(types.ErrUnauthorized, "authentication required")
	}

	reservation, err := c.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	allowed, err := c.taskFilter.CanView(ctx, user, reservation)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, types.Errorf(types.ErrForbidden, "access denied")
	}

	return reservation, nil
}

func (c *ReservationController) ApproveByAdmin(
	ctx context.Context,
	user *User,
	reservationID uuid.UUID,
) (*Reservation, error) {
	if err := requireRole(user, RoleAdmin); err != nil {
		return nil, err
	}

	approved := true
	reservation, err := c.update(ctx, reservationID, types.ReservationUpdate{ApprovedByAdmin: &approved})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.RESERVATION_APPROVED, user, reservation)
	return reservation, nil
}

func (c *ReservationController) ApproveByClient(
	ctx context.Context,
	user *User,
	reservationID uuid.UUID,
) (*Reservation, error) {
	if err := requireRole(user, RoleClient); err != nil {
		return nil, err
	}

	reservation, err := c.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.ClientID != user.ID {
		return nil, types.Errorf(types.ErrNotFound, "reservation %s", reservationID)
	}

	approved := true
	reservation, err = c.update(ctx, reservationID, types.ReservationUpdate{ApprovedByClient: &approved})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.RESERVATION_APPROVED, user, reservation)
	return reservation, nil
}

func (c *ReservationController) Rate(
	ctx context.Context,
	user *User,
	reservationID uuid.UUID,
	rating int,
) (*types.RatingResult, error) {
	result, err := c.rating.ApplyRating(ctx, reservationID, user, rating)
	if err != nil {
		return nil, err
	}

	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, events.RESERVATIONS_CHANNEL, events.Event{
			Type:   events.RESERVATION_RATED,
			UserID: &user.ID,
			Data: map[string]any{
				"reservationId": result.ReservationID,
				"groupId":       result.GroupID,
				"rating":        result.UpdatedRating,
			},
		}); err != nil {
			c.log.TraceFromContext(ctx).Function("Rate").Warn("failed to publish rating event", "error", err)
		}
	}

	return result, nil
}

// update writes and re-reads in one transaction so the caller sees the
// committed row.
func (c *ReservationController) update(
	ctx context.Context,
	reservationID uuid.UUID,
	update types.ReservationUpdate,
) (*Reservation, error) {
	var reservation *Reservation
	err := c.store.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := c.store.UpdateReservation(ctx, reservationID, update); err != nil {
			return err
		}
		var err error
		reservation, err = c.store.GetReservation(ctx, reservationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (c *ReservationController) publish(ctx context.Context, eventType events.EventType, user *User, reservation *Reservation) {
	if c.publisher == nil {
		return
	}

	data := map[string]any{
		"reservationId": reservation.ID.String(),
		"cleaningType":  reservation.CleaningType,
		"status":        reservation.Status,
	}
	if reservation.AssignedGroupID != nil {
		data["groupId"] = reservation.AssignedGroupID.String()
	}

	if err := c.publisher.Publish(ctx, events.RESERVATIONS_CHANNEL, events.Event{
		Type:   eventType,
		UserID: &user.ID,
		Data:   data,
	}); err != nil {
		c.log.TraceFromContext(ctx).Function("publish").Warn(
			"failed to publish reservation event",
			"eventType", eventType,
			"reservationID", reservation.ID,
			"error", err,
		)
	}
}
