package app

import (
	"context"

	"cleanroster/config"
	"cleanroster/internal/controllers"
	"cleanroster/internal/database"
	"cleanroster/internal/events"
	"cleanroster/internal/handlers/middleware"
	"cleanroster/internal/jobs"
	"cleanroster/internal/repositories"
	"cleanroster/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)
	events.InvalidateStatsSnapshot(eventBus, db.Cache.General)

	transactionService := services.NewTransactionService(db)
	repos := repositories.New(db, transactionService, config.StoreTimeout())
	services := services.New(db, config, transactionService, repos)
	controllers := controllers.New(services, repos, eventBus, config)
	middleware := middleware.New(config, controllers.Auth)

	if err := jobs.RegisterAllJobs(services.Scheduler, config, services); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		EventBus:    eventBus,
		Services:    services,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	switch {
	case a.EventBus == nil:
		return log.ErrMsg("event bus is nil")
	case a.Services.Transaction == nil,
		a.Services.Scheduler == nil,
		a.Services.Auth == nil,
		a.Services.Assignment == nil,
		a.Services.Rating == nil,
		a.Services.TaskFilter == nil,
		a.Services.Statistics == nil,
		a.Services.Snapshot == nil:
		return log.ErrMsg("service is nil")
	case a.Repos.Store == nil:
		return log.ErrMsg("store is nil")
	case a.Controllers.Auth == nil,
		a.Controllers.User == nil,
		a.Controllers.Reservation == nil,
		a.Controllers.Task == nil,
		a.Controllers.Group == nil,
		a.Controllers.Admin == nil:
		return log.ErrMsg("controller is nil")
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
