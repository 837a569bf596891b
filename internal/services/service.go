package services

import (
	"cleanroster/config"
	"cleanroster/internal/database"
	"cleanroster/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Auth        *AuthService
	Assignment  *AssignmentService
	Rating      *RatingService
	TaskFilter  *TaskFilterService
	Statistics  *StatisticsService
	Snapshot    *SnapshotService
}

// New wires the engine services over the repository backed store.
func New(db database.DB, config config.Config, transaction *TransactionService, repos repositories.Repository) Service {
	return NewWithStore(db, config, transaction, repos.Store)
}

func NewWithStore(db database.DB, config config.Config, transaction *TransactionService, store Store) Service {
	taskFilter := NewTaskFilterService(store)
	statistics := NewStatisticsService(store, taskFilter)

	return Service{
		Transaction: transaction,
		Scheduler:   NewSchedulerService(),
		Auth:        NewAuthService(config, db.Cache.Session),
		Assignment:  NewAssignmentService(store),
		Rating:      NewRatingService(store),
		TaskFilter:  taskFilter,
		Statistics:  statistics,
		Snapshot:    NewSnapshotService(statistics, db.Cache.General),
	}
}
