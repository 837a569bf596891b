package controllers

import (
	"cleanroster/config"
	"cleanroster/internal/events"
	"cleanroster/internal/repositories"
	"cleanroster/internal/services"

	adminController "cleanroster/internal/controllers/admin"
	authController "cleanroster/internal/controllers/auth"
	groupController "cleanroster/internal/controllers/groups"
	reservationController "cleanroster/internal/controllers/reservations"
	taskController "cleanroster/internal/controllers/tasks"
	userController "cleanroster/internal/controllers/users"
)

type Controllers struct {
	User        userController.UserControllerInterface
	Auth        authController.AuthControllerInterface
	Reservation reservationController.ReservationControllerInterface
	Task        taskController.TaskControllerInterface
	Group       groupController.GroupControllerInterface
	Admin       adminController.AdminControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
) Controllers {
	return Controllers{
		User:        userController.New(repos),
		Auth:        authController.New(services, repos),
		Reservation: reservationController.New(repos, services, eventBus, config),
		Task:        taskController.New(repos, services, eventBus, config),
		Group:       groupController.New(repos, eventBus, config),
		Admin:       adminController.New(repos, services),
	}
}
