package jobs

import (
	"context"

	"cleanroster/internal/constants"
	"cleanroster/internal/services"
	"cleanroster/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type snapshotRefresher interface {
	Refresh(ctx context.Context) (*types.StatsSnapshot, error)
}

type StatisticsSnapshotJob struct {
	snapshot snapshotRefresher
	log      logger.Logger
	schedule services.Schedule
}

func NewStatisticsSnapshotJob(
	snapshot snapshotRefresher,
	schedule services.Schedule,
) *StatisticsSnapshotJob {
	log := logger.New("statisticsSnapshotJob")
	log.Info("Creating new statistics snapshot job", "schedule", schedule)

	return &StatisticsSnapshotJob{
		snapshot: snapshot,
		log:      log,
		schedule: schedule,
	}
}

func (j *StatisticsSnapshotJob) Name() string {
	return constants.JobStatisticsSnapshot
}

func (j *StatisticsSnapshotJob) Execute(ctx context.Context) error {
	log := j.log.TraceFromContext(ctx).Function("Execute")

	snapshot, err := j.snapshot.Refresh(ctx)
	if err != nil {
		return log.Err("statistics snapshot refresh failed", err)
	}

	log.Info(
		"Statistics snapshot refreshed",
		"totalReservations", snapshot.Report.TotalReservations,
		"generatedAt", snapshot.GeneratedAt,
	)
	return nil
}

func (j *StatisticsSnapshotJob) Schedule() services.Schedule {
	return j.schedule
}
