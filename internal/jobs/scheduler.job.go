package jobs

import (
	"cleanroster/config"
	"cleanroster/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	snapshotJob := NewStatisticsSnapshotJob(services.Snapshot, Hourly)
	if err := schedulerService.AddJob(snapshotJob); err != nil {
		return log.Err("failed to register statistics snapshot job", err)
	}
	log.Info("Registered statistics snapshot job", "schedule", "hourly")

	return nil
}
