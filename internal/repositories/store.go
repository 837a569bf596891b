package repositories

import (
	"context"
	"time"

	contextutil "cleanroster/internal/context"
	. "cleanroster/internal/models"
	"cleanroster/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the entity store consumed by the assignment, rating and
// statistics services. Every call is bounded by the configured timeout.
type Store struct {
	groups       GroupRepository
	reservations ReservationRepository
	transactor   Transactor
	timeout      time.Duration
}

func NewStore(
	groups GroupRepository,
	reservations ReservationRepository,
	transactor Transactor,
	timeout time.Duration,
) *Store {
	return &Store{
		groups:       groups,
		reservations: reservations,
		transactor:   transactor,
		timeout:      timeout,
	}
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) FindGroupsBySpecialization(ctx context.Context, spec Specialization) ([]*Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.groups.FindBySpecialization(ctx, spec)
}

func (s *Store) FindGroupByChief(ctx context.Context, userID uuid.UUID) (*Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.groups.FindByChief(ctx, userID)
}

func (s *Store) FindGroupsByMember(ctx context.Context, userID uuid.UUID) ([]*Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.groups.FindByMember(ctx, userID)
}

func (s *Store) FindAllGroups(ctx context.Context) ([]*Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.groups.FindAll(ctx)
}

func (s *Store) FindReservations(ctx context.Context, query types.ReservationQuery) ([]*Reservation, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.reservations.Find(ctx, query)
}

func (s *Store) GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.reservations.GetByID(ctx, id)
}

func (s *Store) SumReservationPrices(ctx context.Context) (decimal.Decimal, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.reservations.SumPrices(ctx)
}

func (s *Store) LockGroup(ctx context.Context, groupID uuid.UUID) (*Group, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.groups.Lock(ctx, groupID)
}

func (s *Store) UpdateGroupRating(ctx context.Context, groupID uuid.UUID, rating float64) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.groups.UpdateRating(ctx, groupID, rating)
}

func (s *Store) UpdateReservation(ctx context.Context, id uuid.UUID, update types.ReservationUpdate) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.reservations.Update(ctx, id, update)
}

func (s *Store) CreateReservation(ctx context.Context, reservation *Reservation) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.reservations.Create(ctx, reservation)
}

// WithinTransaction runs fn in one transaction. Nested calls reuse the
// transaction already carried by ctx.
func (s *Store) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	if contextutil.InTransaction(ctx) {
		return fn(ctx)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	err := s.transactor.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return fn(contextutil.WithTransaction(ctx, tx))
	})
	return types.StoreError(err)
}
