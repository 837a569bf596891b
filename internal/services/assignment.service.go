package services

import (
	"context"

	"cleanroster/internal/metrics"
	"cleanroster/internal/models"
	"cleanroster/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type AssignmentService struct {
	store Store
	log   logger.Logger
}

func NewAssignmentService(store Store) *AssignmentService {
	return &AssignmentService{
		store: store,
		log:   logger.New("assignmentService"),
	}
}

// SelectBestGroup returns the highest rated candidate. Ties keep the
// first one encountered. It returns nil for an empty slice.
func SelectBestGroup(candidates []*models.Group) *models.Group {
	var best *models.Group
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if best == nil || candidate.Rating > best.Rating {
			best = candidate
		}
	}
	return best
}

// AssignGroup picks the group a new reservation of cleaningType goes to.
// It only reads; persisting the assignment is up to the caller.
func (s *AssignmentService) AssignGroup(
	ctx context.Context,
	cleaningType models.Specialization,
) (*models.Group, error) {
	log := s.log.TraceFromContext(ctx).Function("AssignGroup")

	if !cleaningType.IsValid() {
		return nil, types.Errorf(types.ErrValidation, "unknown cleaning type %q", cleaningType)
	}

	candidates, err := s.store.FindGroupsBySpecialization(ctx, cleaningType)
	if err != nil {
		metrics.ObserveAssignment(string(cleaningType), metrics.ResultError)
		return nil, log.Err("failed to load candidate groups", err, "cleaningType", cleaningType)
	}

	eligible := candidates[:0:0]
	for _, group := range candidates {
		if group != nil && group.Specialization == cleaningType {
			eligible = append(eligible, group)
		}
	}

	best := SelectBestGroup(eligible)
	if best == nil {
		metrics.ObserveAssignment(string(cleaningType), "no_eligible_group")
		log.Info("no group matches cleaning type", "cleaningType", cleaningType)
		return nil, types.Errorf(types.ErrNoEligibleGroup, "no group offers %s", cleaningType.Label())
	}

	metrics.ObserveAssignment(string(cleaningType), metrics.ResultSuccess)
	log.Info("group selected", "cleaningType", cleaningType, "groupID", best.ID, "rating", best.Rating)
	return best, nil
}
