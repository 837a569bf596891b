package userController

import (
	"context"

	. "cleanroster/internal/models"
	"cleanroster/internal/repositories"
	"cleanroster/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type UserController struct {
	userRepo repositories.UserRepository
	log      logger.Logger
}

type UserControllerInterface interface {
	Profile(user *User) (*UserProfile, error)
	ListByRole(ctx context.Context, user *User, role string) ([]UserProfile, error)
}

func New(repos repositories.Repository) UserControllerInterface {
	return NewWithRepository(repos.User)
}

func NewWithRepository(userRepo repositories.UserRepository) UserControllerInterface {
	return &UserController{
		userRepo: userRepo,
		log:      logger.New("userController"),
	}
}

func (uc *UserController) Profile(user *User) (*UserProfile, error) {
	if user == nil {
		return nil, types.Errorf(types.ErrUnauthorized, "authentication required")
	}
	profile := user.ToProfile()
	return &profile, nil
}

// ListByRole lets admins pick chiefs and members when composing groups.
func (uc *UserController) ListByRole(ctx context.Context, user *User, role string) ([]UserProfile, error) {
	if user == nil {
		return nil, types.Errorf(types.ErrUnauthorized, "authentication required")
	}
	if !user.IsAdmin() {
		return nil, types.Errorf(types.ErrForbidden, "admin access required")
	}

	parsed, err := ParseRole(role)
	if err != nil {
		return nil, types.Errorf(types.ErrValidation, "%s", err.Error())
	}

	users, err := uc.userRepo.FindByRole(ctx, parsed)
	if err != nil {
		return nil, uc.log.TraceFromContext(ctx).Function("ListByRole").Err("failed to list users", err, "role", parsed)
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.ToProfile())
	}
	return profiles, nil
}
