package admin

import (
	"context"
	"time"

	"cleanroster/internal/constants"
	"cleanroster/internal/models"
	"cleanroster/internal/repositories"
	"cleanroster/internal/services"
	"cleanroster/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	RecentReservationsLimit = 10
	TopGroupsLimit          = 5
	MonthlyStatsWindow      = 12 // months
)

type AdminControllerInterface interface {
	Dashboard(ctx context.Context) (*types.AdminDashboard, error)
	StatisticsSnapshot(ctx context.Context) (*types.StatsSnapshot, error)
	RefreshSnapshot(ctx context.Context) error
}

type AdminController struct {
	userRepo         repositories.UserRepository
	groupRepo        repositories.GroupRepository
	reservationRepo  repositories.ReservationRepository
	snapshotService  *services.SnapshotService
	schedulerService *services.SchedulerService
	now              func() time.Time
	log              logger.Logger
}

func New(repos repositories.Repository, services services.Service) AdminControllerInterface {
	return &AdminController{
		userRepo:         repos.User,
		groupRepo:        repos.Group,
		reservationRepo:  repos.Reservation,
		snapshotService:  services.Snapshot,
		schedulerService: services.Scheduler,
		now:              time.Now,
		log:              logger.New("adminController"),
	}
}

func (c *AdminController) monthlyWindowStart() time.Time {
	now := c.now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(MonthlyStatsWindow - 1), 0)
}

func (c *AdminController) Dashboard(ctx context.Context) (*types.AdminDashboard, error) {
	log := c.log.TraceFromContext(ctx).Function("Dashboard")

	dashboard := &types.AdminDashboard{}
	var err error

	if dashboard.TotalGroups, err = c.groupRepo.Count(ctx); err != nil {
		return nil, log.Err("failed to count groups", err)
	}
	if dashboard.TotalMembers, err = c.userRepo.CountByRole(ctx, models.RoleMember); err != nil {
		return nil, log.Err("failed to count members", err)
	}
	if dashboard.TotalClients, err = c.userRepo.CountByRole(ctx, models.RoleClient); err != nil {
		return nil, log.Err("failed to count clients", err)
	}
	if dashboard.TotalReservations, err = c.reservationRepo.Count(ctx); err != nil {
		return nil, log.Err("failed to count reservations", err)
	}
	if dashboard.RecentReservations, err = c.reservationRepo.Recent(ctx, RecentReservationsLimit); err != nil {
		return nil, log.Err("failed to load recent reservations", err)
	}
	if dashboard.MonthlyStats, err = c.reservationRepo.MonthlyCounts(ctx, c.monthlyWindowStart()); err != nil {
		return nil, log.Err("failed to load monthly counts", err)
	}

	topGroups, err := c.groupRepo.TopRated(ctx, TopGroupsLimit)
	if err != nil {
		return nil, log.Err("failed to load top groups", err)
	}
	dashboard.TopGroups = make([]types.GroupRatingEntry, 0, len(topGroups))
	for _, group := range topGroups {
		dashboard.TopGroups = append(dashboard.TopGroups, types.GroupRatingEntry{
			Name:           group.Name,
			Specialization: group.Specialization,
			Rating:         group.Rating,
		})
	}

	return dashboard, nil
}

func (c *AdminController) StatisticsSnapshot(ctx context.Context) (*types.StatsSnapshot, error) {
	return c.snapshotService.Get(ctx)
}

// RefreshSnapshot runs the snapshot job now instead of waiting for the hour.
func (c *AdminController) RefreshSnapshot(ctx context.Context) error {
	log := c.log.TraceFromContext(ctx).Function("RefreshSnapshot")

	if c.schedulerService.GetJobCount() > 0 {
		if err := c.schedulerService.TriggerJobByName(ctx, constants.JobStatisticsSnapshot); err == nil {
			log.Info("statistics snapshot job triggered")
			return nil
		}
	}

	if _, err := c.snapshotService.Refresh(ctx); err != nil {
		return err
	}
	log.Info("statistics snapshot refreshed inline")
	return nil
}
