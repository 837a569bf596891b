package repositories

import (
	"context"
	"time"

	contextutil "cleanroster/internal/context"
	"cleanroster/internal/database"

	"gorm.io/gorm"
)

// Transactor runs fn inside one database transaction and binds that
// transaction to the context it hands to fn.
type Transactor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type Repository struct {
	User        UserRepository
	Group       GroupRepository
	Reservation ReservationRepository
	Store       *Store
}

func New(db database.DB, transactor Transactor, storeTimeout time.Duration) Repository {
	userRepo := NewUserRepository(db)
	groupRepo := NewGroupRepository(db)
	reservationRepo := NewReservationRepository(db)

	return Repository{
		User:        userRepo,
		Group:       groupRepo,
		Reservation: reservationRepo,
		Store:       NewStore(groupRepo, reservationRepo, transactor, storeTimeout),
	}
}

// getDB prefers the transaction carried by ctx over the shared pool.
func getDB(ctx context.Context, db database.DB) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.SQLWithContext(ctx)
}
