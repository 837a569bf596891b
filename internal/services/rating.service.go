package services

import (
	"context"
	"errors"
	"time"

	"cleanroster/internal/metrics"
	"cleanroster/internal/models"
	"cleanroster/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const (
	MinClientRating = 1
	MaxClientRating = 5
)

type RatingService struct {
	store Store
	locks *groupLocks
	now   func() time.Time
	log   logger.Logger
}

func NewRatingService(store Store) *RatingService {
	return &RatingService{
		store: store,
		locks: newGroupLocks(),
		now:   time.Now,
		log:   logger.New("ratingService"),
	}
}

// AverageRating folds a new rating into the current one with equal weight:
// (current + rating) / 2.
func AverageRating(current float64, rating int) float64 {
	return (current + float64(rating)) / 2
}

// ApplyRating records a client's rating of a reservation and updates the
// assigned group's rating. Writes to a group are serialized, and the group
// rating and the reservation's rated marker are committed together.
func (s *RatingService) ApplyRating(
	ctx context.Context,
	reservationID uuid.UUID,
	caller *models.User,
	rating int,
) (*types.RatingResult, error) {
	log := s.log.TraceFromContext(ctx).Function("ApplyRating")

	result, err := s.applyRating(ctx, reservationID, caller, rating)
	if err != nil {
		metrics.ObserveRating(metrics.ResultError)
		if errors.Is(err, types.ErrStoreUnavailable) {
			return nil, log.Err("store unavailable while rating", err, "reservationID", reservationID)
		}
		log.Info("rating rejected", "reservationID", reservationID, "error", err)
		return nil, err
	}

	metrics.ObserveRating(metrics.ResultSuccess)
	log.Info(
		"rating applied",
		"reservationID", reservationID,
		"groupID", result.GroupID,
		"previous", result.PreviousScore,
		"updated", result.UpdatedRating,
	)
	return result, nil
}

func (s *RatingService) applyRating(
	ctx context.Context,
	reservationID uuid.UUID,
	caller *models.User,
	rating int,
) (*types.RatingResult, error) {
	if caller == nil || caller.Role != models.RoleClient {
		return nil, types.Errorf(types.ErrForbidden, "only clients can rate reservations")
	}
	if rating < MinClientRating || rating > MaxClientRating {
		return nil, types.Errorf(types.ErrValidation, "rating must be between %d and %d", MinClientRating, MaxClientRating)
	}

	reservation, err := s.ownedReservation(ctx, reservationID, caller.ID)
	if err != nil {
		return nil, err
	}
	if reservation.AssignedGroupID == nil {
		return nil, types.Errorf(types.ErrInvalidState, "reservation has no assigned group")
	}
	groupID := *reservation.AssignedGroupID

	unlock := s.locks.Lock(groupID)
	defer unlock()

	var result *types.RatingResult
	err = s.store.WithinTransaction(ctx, func(ctx context.Context) error {
		// Re-read under the lock so a concurrent rating of the same
		// reservation is seen.
		current, err := s.ownedReservation(ctx, reservationID, caller.ID)
		if err != nil {
			return err
		}
		if current.IsRated() {
			return types.Errorf(types.ErrInvalidState, "reservation already rated")
		}
		if !current.IsAssignedTo(groupID) {
			return types.Errorf(types.ErrInvalidState, "reservation assignment changed")
		}

		group, err := s.store.LockGroup(ctx, groupID)
		if err != nil {
			return err
		}

		updated := AverageRating(group.Rating, rating)
		if err := s.store.UpdateGroupRating(ctx, groupID, updated); err != nil {
			return err
		}

		ratedAt := s.now().UTC()
		if err := s.store.UpdateReservation(ctx, reservationID, types.ReservationUpdate{
			ClientRating: &rating,
			RatedAt:      &ratedAt,
		}); err != nil {
			return err
		}

		result = &types.RatingResult{
			ReservationID: reservationID.String(),
			GroupID:       groupID.String(),
			PreviousScore: group.Rating,
			UpdatedRating: updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ownedReservation hides reservations of other clients behind ErrNotFound.
func (s *RatingService) ownedReservation(
	ctx context.Context,
	reservationID uuid.UUID,
	clientID uuid.UUID,
) (*models.Reservation, error) {
	reservation, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.ClientID != clientID {
		return nil, types.Errorf(types.ErrNotFound, "reservation %s", reservationID)
	}
	return reservation, nil
}
