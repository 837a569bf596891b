package groupController

import (
	"context"
	"errors"

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

type GroupController struct {
	groupRepo repositories.GroupRepository
	userRepo  repositories.UserRepository
	store     services.Store
	publisher events.Publisher
	Config    config.Config
	log       logger.Logger
}

type GroupRequest struct {
	Name           string      `json:"name"           validate:"required,max=100"`
	Specialization string      `json:"specialization" validate:"required,specialization"`
	Rating         *float64    `json:"rating"         validate:"omitempty,gte=1,lte=5"`
	ChiefID        *uuid.UUID  `json:"chief_id"`
	MemberIDs      []uuid.UUID `json:"member_ids"     validate:"max=5,unique"`
}

type ListGroupsRequest struct {
	Specialization string `query:"specialization" json:"specialization" validate:"omitempty,specialization"`
	Skip           int    `query:"skip"           json:"skip"           validate:"gte=0"`
	Limit          int    `query:"limit"          json:"limit"          validate:"gte=0,lte=100"`
}

type GroupControllerInterface interface {
	List(ctx context.Context, request *ListGroupsRequest) ([]*Group, error)
	Get(ctx context.Context, groupID uuid.UUID) (*Group, error)
	Create(ctx context.Context, user *User, request *GroupRequest) (*Group, error)
	Update(ctx context.Context, user *User, groupID uuid.UUID, request *GroupRequest) (*Group, error)
	Delete(ctx context.Context, user *User, groupID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	publisher events.Publisher,
	config config.Config,
) GroupControllerInterface {
	return NewWithRepositories(repos.Group, repos.User, repos.Store, publisher, config)
}

func NewWithRepositories(
	groupRepo repositories.GroupRepository,
	userRepo repositories.UserRepository,
	store services.Store,
	publisher events.Publisher,
	config config.Config,
) GroupControllerInterface {
	return &GroupController{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		store:     store,
		publisher: publisher,
		Config:    config,
		log:       logger.New("groupController"),
	}
}

func requireAdmin(user *User) error {
	if user == nil {
		return types.Errorf(types.ErrUnauthorized, "authentication required")
	}
	if !user.IsAdmin() {
		return types.Errorf(types.ErrForbidden, "admin access required")
	}
	return nil
}

func (c *GroupController) List(ctx context.Context, request *ListGroupsRequest) ([]*Group, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	filters := types.GroupFilters{Skip: request.Skip, Limit: request.Limit}
	if request.Specialization != "" {
		spec, err := ParseSpecialization(request.Specialization)
		if err != nil {
			return nil, types.Errorf(types.ErrValidation, "%s", err.Error())
		}
		filters.Specialization = &spec
	}

	return c.groupRepo.List(ctx, filters)
}

func (c *GroupController) Get(ctx context.Context, groupID uuid.UUID) (*Group, error) {
	return c.groupRepo.GetByID(ctx, groupID)
}

func (c *GroupController) Create(ctx context.Context, user *User, request *GroupRequest) (*Group, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	if err := requireAdmin(user); err != nil {
		return nil, err
	}

	group := &Group{Rating: DefaultGroupRating}
	if err := c.apply(ctx, group, nil, request); err != nil {
		return nil, err
	}

	if err := c.groupRepo.Create(ctx, group); err != nil {
		return nil, log.Err("failed to create group", err, "name", group.Name)
	}

	c.publish(ctx, user, group.ID, "created")
	log.Info("group created", "groupID", group.ID, "name", group.Name, "specialization", group.Specialization)
	return c.groupRepo.GetByID(ctx, group.ID)
}

func (c *GroupController) Update(
	ctx context.Context,
	user *User,
	groupID uuid.UUID,
	request *GroupRequest,
) (*Group, error) {
	log := c.log.TraceFromContext(ctx).Function("Update")

	if err := requireAdmin(user); err != nil {
		return nil, err
	}

	err := c.store.WithinTransaction(ctx, func(ctx context.Context) error {
		// Same row lock ApplyRating takes, so rating writers stay serialized.
		if _, err := c.groupRepo.Lock(ctx, groupID); err != nil {
			return err
		}

		group, err := c.groupRepo.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if err := c.apply(ctx, group, &groupID, request); err != nil {
			return err
		}
		return c.groupRepo.Update(ctx, group, request.Rating != nil)
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, user, groupID, "updated")
	log.Info("group updated", "groupID", groupID)
	return c.groupRepo.GetByID(ctx, groupID)
}

func (c *GroupController) Delete(ctx context.Context, user *User, groupID uuid.UUID) error {
	if err := requireAdmin(user); err != nil {
		return err
	}

	if err := c.groupRepo.Delete(ctx, groupID); err != nil {
		return err
	}

	c.publish(ctx, user, groupID, "deleted")
	c.log.TraceFromContext(ctx).Function("Delete").Info("group deleted", "groupID", groupID)
	return nil
}

// apply validates request against the stored users and groups and copies it
// onto group. excludeID is the group being updated, nil on create.
func (c *GroupController) apply(
	ctx context.Context,
	group *Group,
	excludeID *uuid.UUID,
	request *GroupRequest,
) error {
	if err := utils.ValidateStruct(request); err != nil {
		return err
	}

	spec, err := ParseSpecialization(request.Specialization)
	if err != nil {
		return types.Errorf(types.ErrValidation, "%s", err.Error())
	}

	taken, err := c.groupRepo.NameTaken(ctx, request.Name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return types.Errorf(types.ErrConflict, "group name %q already exists", request.Name)
	}

	var chief *User
	if request.ChiefID != nil {
		chief, err = c.userRepo.GetByID(ctx, *request.ChiefID)
		if errors.Is(err, types.ErrNotFound) {
			return types.Errorf(types.ErrValidation, "chief %s does not exist", *request.ChiefID)
		}
		if err != nil {
			return err
		}
		if chief.Role != RoleChief {
			return types.Errorf(types.ErrValidation, "user %s is not a chief", chief.Username)
		}

		chiefTaken, err := c.groupRepo.ChiefTaken(ctx, chief.ID, excludeID)
		if err != nil {
			return err
		}
		if chiefTaken {
			return types.Errorf(types.ErrConflict, "chief %s already leads a group", chief.Username)
		}
	}

	members := []*User{}
	if len(request.MemberIDs) > 0 {
		members, err = c.userRepo.FindByIDs(ctx, request.MemberIDs)
		if err != nil {
			return err
		}
		if len(members) != len(request.MemberIDs) {
			return types.Errorf(types.ErrValidation, "one or more members do not exist")
		}
		for _, member := range members {
			if member.Role != RoleMember {
				return types.Errorf(types.ErrValidation, "user %s is not a member", member.Username)
			}
		}
	}

	group.Name = request.Name
	group.Specialization = spec
	if request.Rating != nil {
		group.Rating = *request.Rating
	}
	group.ChiefID = request.ChiefID
	group.Chief = chief
	group.Members = members

	if err := group.Validate(); err != nil {
		return types.Errorf(types.ErrValidation, "%s", err.Error())
	}
	return nil
}

func (c *GroupController) publish(ctx context.Context, user *User, groupID uuid.UUID, action string) {
	if c.publisher == nil {
		return
	}

	if err := c.publisher.Publish(ctx, events.GROUPS_CHANNEL, events.Event{
		Type:   events.GROUP_CHANGED,
		UserID: &user.ID,
		Data: map[string]any{
			"groupId": groupID.String(),
			"action":  action,
		},
	}); err != nil {
		c.log.TraceFromContext(ctx).Function("publish").Warn("failed to publish group event", "groupID", groupID, "error", err)
	}
}
