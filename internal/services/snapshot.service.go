package services

import (
	"context"
	"time"

	"cleanroster/internal/constants"
	"cleanroster/internal/database"
	"cleanroster/internal/metrics"
	"cleanroster/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

// SnapshotService keeps the unscoped statistics report in the general cache.
type SnapshotService struct {
	statistics *StatisticsService
	cache      database.CacheClient
	now        func() time.Time
	log        logger.Logger
}

func NewSnapshotService(statistics *StatisticsService, cache database.CacheClient) *SnapshotService {
	return &SnapshotService{
		statistics: statistics,
		cache:      cache,
		now:        time.Now,
		log:        logger.New("snapshotService"),
	}
}

// Refresh recomputes the snapshot and stores it. A cache write failure is
// logged and the fresh snapshot is still returned.
func (s *SnapshotService) Refresh(ctx context.Context) (*types.StatsSnapshot, error) {
	log := s.log.TraceFromContext(ctx).Function("Refresh")

	report, err := s.statistics.GlobalStatistics(ctx)
	if err != nil {
		return nil, log.Err("failed to compute statistics snapshot", err)
	}

	snapshot := &types.StatsSnapshot{Report: report, GeneratedAt: s.now().UTC()}
	metrics.SetSnapshotTime(snapshot.GeneratedAt)

	if s.cache == nil {
		return snapshot, nil
	}

	if err := database.NewCacheBuilder(s.cache, constants.StatsSnapshotKey).
		WithHash(constants.StatsCachePrefix).
		WithStruct(snapshot).
		WithTTL(constants.StatsSnapshotExpiry).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache statistics snapshot", "error", err)
	}

	return snapshot, nil
}

// Get serves the cached snapshot, computing a fresh one on a miss.
func (s *SnapshotService) Get(ctx context.Context) (*types.StatsSnapshot, error) {
	if s.cache != nil {
		var snapshot types.StatsSnapshot
		found, err := database.NewCacheBuilder(s.cache, constants.StatsSnapshotKey).
			WithHash(constants.StatsCachePrefix).
			WithContext(ctx).
			Get(&snapshot)
		if err != nil {
			s.log.TraceFromContext(ctx).Function("Get").Warn("failed to read statistics snapshot", "error", err)
		}
		if found {
			return &snapshot, nil
		}
	}

	return s.Refresh(ctx)
}
