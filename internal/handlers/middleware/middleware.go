package middleware

import (
	"cleanroster/config"
	authController "cleanroster/internal/controllers/auth"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	Config         config.Config
	authController authController.AuthControllerInterface
	log            logger.Logger
}

func New(
	config config.Config,
	authController authController.AuthControllerInterface,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		Config:         config,
		authController: authController,
		log:            log,
	}
}
