package services

import (
	"context"

	"cleanroster/internal/models"
	"cleanroster/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the entity store the engine reads and writes through.
// Implementations return types.ErrNotFound for missing entities and
// types.ErrStoreUnavailable when the backing store times out or is unreachable.
type Store interface {
	FindGroupsBySpecialization(ctx context.Context, spec models.Specialization) ([]*models.Group, error)
	// FindGroupByChief returns nil, nil when the user chiefs no group.
	FindGroupByChief(ctx context.Context, userID uuid.UUID) (*models.Group, error)
	FindGroupsByMember(ctx context.Context, userID uuid.UUID) ([]*models.Group, error)
	FindAllGroups(ctx context.Context) ([]*models.Group, error)
	FindReservations(ctx context.Context, query types.ReservationQuery) ([]*models.Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	SumReservationPrices(ctx context.Context) (decimal.Decimal, error)
	LockGroup(ctx context.Context, groupID uuid.UUID) (*models.Group, error)
	UpdateGroupRating(ctx context.Context, groupID uuid.UUID, rating float64) error
	UpdateReservation(ctx context.Context, id uuid.UUID, update types.ReservationUpdate) error
	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	WithinTransaction(ctx context.Context, fn func(context.Context) error) error
}
