package services

import (
	"context"
	"math"
	"sort"
	"time"

	"cleanroster/internal/metrics"
	"cleanroster/internal/models"
	"cleanroster/internal/types"
	"cleanroster/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

const (
	DashboardUpcomingLimit = 5
	DashboardRecentLimit   = 5
)

type StatisticsService struct {
	store  Store
	filter *TaskFilterService
	now    func() time.Time
	log    logger.Logger
}

func NewStatisticsService(store Store, filter *TaskFilterService) *StatisticsService {
	return &StatisticsService{
		store:  store,
		filter: filter,
		now:    time.Now,
		log:    logger.New("statisticsService"),
	}
}

func roundTo2(value float64) float64 {
	return math.Round(value*100) / 100
}

func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return roundTo2(float64(completed) / float64(total) * 100)
}

// ComputeStatistics aggregates scope. totalRevenue is passed in because it
// covers the whole store, not just scope.
func ComputeStatistics(scope []*models.Reservation, totalRevenue decimal.Decimal) types.StatsReport {
	report := types.StatsReport{
		TotalReservations:     len(scope),
		TotalRevenue:          totalRevenue,
		PriorityBreakdown:     map[models.Priority]int{},
		CleaningTypeBreakdown: map[models.Specialization]int{},
		MonthlyBreakdown:      []types.MonthlyEntry{},
	}

	months := map[string]*types.MonthlyEntry{}
	for _, reservation := range scope {
		if reservation.ApprovedByAdmin {
			report.StatusBreakdown.Approved++
		} else {
			report.StatusBreakdown.Pending++
		}

		report.PriorityBreakdown[reservation.Priority]++
		report.CleaningTypeBreakdown[reservation.CleaningType]++

		key := utils.MonthKey(reservation.CleaningTime())
		entry, ok := months[key]
		if !ok {
			entry = &types.MonthlyEntry{Month: key, Revenue: decimal.Zero}
			months[key] = entry
		}
		entry.Count++
		entry.Revenue = entry.Revenue.Add(reservation.Price)
	}

	for _, entry := range months {
		report.MonthlyBreakdown = append(report.MonthlyBreakdown, *entry)
	}
	sort.Slice(report.MonthlyBreakdown, func(i, j int) bool {
		return report.MonthlyBreakdown[i].Month < report.MonthlyBreakdown[j].Month
	})

	return report
}

// ComputeWorkload reports one entry per group, in the order given.
func ComputeWorkload(groups []*models.Group, scope []*models.Reservation) []types.GroupWorkload {
	workload := make([]types.GroupWorkload, 0, len(groups))
	for _, group := range groups {
		entry := types.GroupWorkload{GroupName: group.Name}
		for _, reservation := range scope {
			if !reservation.IsAssignedTo(group.ID) {
				continue
			}
			entry.TotalTasks++
			if reservation.Status == models.TaskStatusCompleted {
				entry.CompletedTasks++
			}
		}
		entry.CompletionRate = completionRate(entry.CompletedTasks, entry.TotalTasks)
		workload = append(workload, entry)
	}
	return workload
}

func ComputeTaskStats(scope []*models.Reservation) types.TaskStats {
	stats := types.TaskStats{TotalTasks: len(scope)}
	for _, reservation := range scope {
		switch reservation.Status {
		case models.TaskStatusPending:
			stats.PendingTasks++
		case models.TaskStatusInProgress:
			stats.InProgressTasks++
		case models.TaskStatusCompleted:
			stats.CompletedTasks++
		}
	}
	stats.CompletionRate = completionRate(stats.CompletedTasks, stats.TotalTasks)
	return stats
}

// GroupByDay buckets reservations under their "YYYY-MM-DD" cleaning day,
// preserving input order inside each day.
func GroupByDay(reservations []*models.Reservation) map[string][]*models.Reservation {
	days := map[string][]*models.Reservation{}
	for _, reservation := range reservations {
		key := utils.DayKey(reservation.CleaningTime())
		days[key] = append(days[key], reservation)
	}
	return days
}

// Statistics computes the report over the reservations visible to caller,
// restricted to dateRange on cleaning date.
func (s *StatisticsService) Statistics(
	ctx context.Context,
	caller *models.User,
	dateRange types.DateRange,
) (types.StatsReport, error) {
	log := s.log.TraceFromContext(ctx).Function("Statistics")
	start := time.Now()
	defer func() { metrics.ObserveStatistics("statistics", time.Since(start)) }()

	scope, err := s.filter.FilteredView(ctx, caller, types.TaskFilters{
		DateFrom: dateRange.Start,
		DateTo:   dateRange.End,
		SortBy:   types.SortCleaningDate,
	})
	if err != nil {
		return types.StatsReport{}, err
	}

	totalRevenue, err := s.store.SumReservationPrices(ctx)
	if err != nil {
		return types.StatsReport{}, log.Err("failed to sum revenue", err)
	}

	return ComputeStatistics(scope, totalRevenue), nil
}

// GlobalStatistics is the unscoped report used for cached snapshots.
func (s *StatisticsService) GlobalStatistics(ctx context.Context) (types.StatsReport, error) {
	log := s.log.TraceFromContext(ctx).Function("GlobalStatistics")
	start := time.Now()
	defer func() { metrics.ObserveStatistics("global", time.Since(start)) }()

	scope, err := s.store.FindReservations(ctx, types.ReservationQuery{})
	if err != nil {
		return types.StatsReport{}, log.Err("failed to load reservations", err)
	}

	totalRevenue, err := s.store.SumReservationPrices(ctx)
	if err != nil {
		return types.StatsReport{}, log.Err("failed to sum revenue", err)
	}

	return ComputeStatistics(scope, totalRevenue), nil
}

func (s *StatisticsService) Workload(ctx context.Context, caller *models.User) ([]types.GroupWorkload, error) {
	start := time.Now()
	defer func() { metrics.ObserveStatistics("workload", time.Since(start)) }()

	groups, err := s.filter.WorkloadGroups(ctx, caller)
	if err != nil {
		return nil, err
	}

	scope, err := s.filter.FilteredView(ctx, caller, types.TaskFilters{})
	if err != nil {
		return nil, err
	}

	return ComputeWorkload(groups, scope), nil
}

func (s *StatisticsService) TaskStatistics(ctx context.Context, caller *models.User) (types.TaskStats, error) {
	if caller == nil {
		return types.TaskStats{}, types.Errorf(types.ErrForbidden, "no caller identity")
	}

	switch caller.Role {
	case models.RoleAdmin, models.RoleChief:
	case models.RoleMember, models.RoleClient:
		return types.TaskStats{}, types.Errorf(types.ErrForbidden, "task statistics are restricted to admins and chiefs")
	default:
		return types.TaskStats{}, types.Errorf(types.ErrForbidden, "unknown role %q", caller.Role)
	}

	scope, err := s.filter.FilteredView(ctx, caller, types.TaskFilters{})
	if err != nil {
		return types.TaskStats{}, err
	}

	return ComputeTaskStats(scope), nil
}

// Calendar groups the caller's tasks by day. With month and year set only
// that month is returned.
func (s *StatisticsService) Calendar(
	ctx context.Context,
	caller *models.User,
	month, year *int,
) (map[string][]*models.Reservation, error) {
	filters := types.TaskFilters{SortBy: types.SortCleaningDate}

	if month != nil && year != nil {
		if *month < 1 || *month > 12 {
			return nil, types.Errorf(types.ErrValidation, "month must be between 1 and 12")
		}
		if *year < 2000 {
			return nil, types.Errorf(types.ErrValidation, "year must be 2000 or later")
		}
		from, next := utils.MonthRange(*year, time.Month(*month))
		to := next.AddDate(0, 0, -1)
		filters.DateFrom = &from
		filters.DateTo = &to
	}

	tasks, err := s.filter.FilteredView(ctx, caller, filters)
	if err != nil {
		return nil, err
	}

	return GroupByDay(tasks), nil
}

func (s *StatisticsService) Dashboard(ctx context.Context, caller *models.User) (types.TaskDashboard, error) {
	tasks, err := s.filter.FilteredView(ctx, caller, types.TaskFilters{})
	if err != nil {
		return types.TaskDashboard{}, err
	}

	dashboard := types.TaskDashboard{
		Stats:         ComputeTaskStats(tasks),
		UpcomingTasks: []*models.Reservation{},
		RecentTasks:   []*models.Reservation{},
	}

	today := utils.StartOfDay(s.now())
	upcoming := make([]*models.Reservation, 0, len(tasks))
	for _, task := range tasks {
		if !task.CleaningTime().Before(today) && task.Status != models.TaskStatusCompleted {
			upcoming = append(upcoming, task)
		}
	}
	SortReservations(upcoming, types.SortCleaningDate, false)
	dashboard.UpcomingTasks = upcoming[:min(len(upcoming), DashboardUpcomingLimit)]

	recent := append([]*models.Reservation(nil), tasks...)
	SortReservations(recent, types.SortReservationDate, true)
	dashboard.RecentTasks = recent[:min(len(recent), DashboardRecentLimit)]

	switch caller.Role {
	case models.RoleAdmin, models.RoleChief:
		groups, err := s.filter.WorkloadGroups(ctx, caller)
		if err != nil {
			return types.TaskDashboard{}, err
		}
		dashboard.Workload = ComputeWorkload(groups, tasks)
	case models.RoleMember, models.RoleClient:
	}

	return dashboard, nil
}
