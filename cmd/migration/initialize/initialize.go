package initialize

import (
	"errors"
	"strings"

	"cleanroster/config"
	. "cleanroster/internal/models"
	"cleanroster/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeSuperuser(db, config, log); err != nil {
		return log.Err("failed to initialize superuser", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeSuperuser creates the FIRST_SUPERUSER admin account once.
// Signup never grants ADMIN, so this is the only way to get the first one.
func initializeSuperuser(db *gorm.DB, config config.Config, log logger.Logger) error {
	if config.FirstSuperuser == "" {
		log.Info("FIRST_SUPERUSER not set, skipping admin creation")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(config.FirstSuperuser))
	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Debug("Superuser already exists", "email", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return log.Err("failed to look up superuser", err, "email", email)
	}

	hash, err := services.NewAuthService(config, nil).HashPassword(config.FirstSuperuserPassword)
	if err != nil {
		return log.Err("failed to hash superuser password", err)
	}

	username, _, _ := strings.Cut(email, "@")
	admin := User{
		Username:     username,
		Email:        email,
		Role:         RoleAdmin,
		PasswordHash: hash,
	}
	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to create superuser", err, "email", email)
	}

	log.Info("Superuser created", "email", email, "userID", admin.ID)
	return nil
}
