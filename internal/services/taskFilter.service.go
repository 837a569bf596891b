package services

import (
	"context"
	"sort"

	"cleanroster/internal/models"
	"cleanroster/internal/types"
	"cleanroster/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type TaskFilterService struct {
	store Store
	log   logger.Logger
}

func NewTaskFilterService(store Store) *TaskFilterService {
	return &TaskFilterService{
		store: store,
		log:   logger.New("taskFilterService"),
	}
}

// FilteredView returns the reservations visible to caller, narrowed by
// filters and sorted. Default order is priority (HIGH first) then
// cleaning date ascending.
func (s *TaskFilterService) FilteredView(
	ctx context.Context,
	caller *models.User,
	filters types.TaskFilters,
) ([]*models.Reservation, error) {
	log := s.log.TraceFromContext(ctx).Function("FilteredView")

	if !filters.SortBy.IsValid() {
		return nil, types.Errorf(types.ErrValidation, "unknown sort field %q", filters.SortBy)
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return nil, types.Errorf(types.ErrValidation, "date_to is before date_from")
	}

	query, err := s.ScopeQuery(ctx, caller)
	if err != nil {
		return nil, err
	}

	query.Status = filters.Status
	if filters.DateFrom != nil {
		from := utils.StartOfDay(*filters.DateFrom)
		query.CleaningFrom = &from
	}
	if filters.DateTo != nil {
		before := utils.EndOfDayExclusive(*filters.DateTo)
		query.CleaningBefore = &before
	}

	reservations, err := s.store.FindReservations(ctx, query)
	if err != nil {
		return nil, log.Err("failed to load reservations", err, "userID", caller.ID, "role", caller.Role)
	}

	SortReservations(reservations, filters.SortBy, filters.SortDesc)
	return reservations, nil
}

// ScopeQuery translates the caller's role into store predicates.
func (s *TaskFilterService) ScopeQuery(
	ctx context.Context,
	caller *models.User,
) (types.ReservationQuery, error) {
	if caller == nil {
		return types.ReservationQuery{}, types.Errorf(types.ErrForbidden, "no caller identity")
	}

	switch caller.Role {
	case models.RoleAdmin:
		return types.ReservationQuery{}, nil
	case models.RoleClient:
		clientID := caller.ID
		return types.ReservationQuery{ClientID: &clientID}, nil
	case models.RoleChief:
		group, err := s.store.FindGroupByChief(ctx, caller.ID)
		if err != nil {
			return types.ReservationQuery{}, err
		}
		query := types.ReservationQuery{ScopeToGroups: true}
		if group != nil {
			query.AssignedGroupIDs = []uuid.UUID{group.ID}
		}
		return query, nil
	case models.RoleMember:
		groups, err := s.store.FindGroupsByMember(ctx, caller.ID)
		if err != nil {
			return types.ReservationQuery{}, err
		}
		query := types.ReservationQuery{ScopeToGroups: true, AssignedGroupIDs: make([]uuid.UUID, 0, len(groups))}
		for _, group := range groups {
			query.AssignedGroupIDs = append(query.AssignedGroupIDs, group.ID)
		}
		return query, nil
	default:
		return types.ReservationQuery{}, types.Errorf(types.ErrForbidden, "unknown role %q", caller.Role)
	}
}

// WorkloadGroups returns the groups whose workload caller may see: every
// group for ADMIN, the chiefed group for CHIEF.
func (s *TaskFilterService) WorkloadGroups(ctx context.Context, caller *models.User) ([]*models.Group, error) {
	if caller == nil {
		return nil, types.Errorf(types.ErrForbidden, "no caller identity")
	}

	switch caller.Role {
	case models.RoleAdmin:
		return s.store.FindAllGroups(ctx)
	case models.RoleChief:
		group, err := s.store.FindGroupByChief(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return []*models.Group{}, nil
		}
		return []*models.Group{group}, nil
	case models.RoleMember, models.RoleClient:
		return nil, types.Errorf(types.ErrForbidden, "workload is restricted to admins and chiefs")
	default:
		return nil, types.Errorf(types.ErrForbidden, "unknown role %q", caller.Role)
	}
}

// CanView reports whether caller may see reservation.
func (s *TaskFilterService) CanView(
	ctx context.Context,
	caller *models.User,
	reservation *models.Reservation,
) (bool, error) {
	query, err := s.ScopeQuery(ctx, caller)
	if err != nil {
		return false, err
	}
	return matchesScope(query, reservation), nil
}

func matchesScope(query types.ReservationQuery, reservation *models.Reservation) bool {
	if query.ClientID != nil && reservation.ClientID != *query.ClientID {
		return false
	}
	if query.ScopeToGroups {
		if reservation.AssignedGroupID == nil {
			return false
		}
		for _, id := range query.AssignedGroupIDs {
			if id == *reservation.AssignedGroupID {
				return true
			}
		}
		return false
	}
	return true
}

// SortReservations orders in place. Ties always fall back to cleaning date
// ascending then request date ascending so the order is deterministic.
func SortReservations(reservations []*models.Reservation, field types.SortField, desc bool) {
	tieBreak := func(a, b *models.Reservation) bool {
		if !a.CleaningTime().Equal(b.CleaningTime()) {
			return a.CleaningTime().Before(b.CleaningTime())
		}
		return a.ReservationDate.Before(b.ReservationDate)
	}

	sort.SliceStable(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]

		var cmp int
		switch field {
		case types.SortDefault:
			cmp = b.Priority.Rank() - a.Priority.Rank()
		case types.SortPriority:
			cmp = a.Priority.Rank() - b.Priority.Rank()
		case types.SortCleaningDate:
			cmp = a.CleaningTime().Compare(b.CleaningTime())
		case types.SortReservationDate:
			cmp = a.ReservationDate.Compare(b.ReservationDate)
		case types.SortPrice:
			cmp = a.Price.Cmp(b.Price)
		}

		if field != types.SortDefault && desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
		return tieBreak(a, b)
	})
}
