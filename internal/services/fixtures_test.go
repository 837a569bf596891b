package services

import (
	"time"

	"cleanroster/internal/models"
	"cleanroster/internal/testutil"

	"github.com/shopspring/decimal"
)

// roster is a small deployment: one chief with a member, a second group
// without a chief, two clients and reservations spread across both groups.
type roster struct {
	store   *testutil.MemStore
	admin   *models.User
	chief   *models.User
	member  *models.User
	alice   *models.User
	bob     *models.User
	glass   *models.Group
	kitchen *models.Group
	reserve map[string]*models.Reservation
}

func newRoster() *roster {
	store := testutil.NewMemStore()
	r := &roster{
		store:   store,
		admin:   testutil.NewUser(models.RoleAdmin, "admin"),
		chief:   testutil.NewUser(models.RoleChief, "chief"),
		member:  testutil.NewUser(models.RoleMember, "member"),
		alice:   testutil.NewUser(models.RoleClient, "alice"),
		bob:     testutil.NewUser(models.RoleClient, "bob"),
		reserve: map[string]*models.Reservation{},
	}

	chiefID := r.chief.ID
	r.glass = store.AddGroup(&models.Group{
		Name:           "Glass Team",
		Specialization: models.SpecializationGlass,
		Rating:         4.5,
		ChiefID:        &chiefID,
		Members:        []*models.User{r.member},
	})
	r.kitchen = store.AddGroup(&models.Group{
		Name:           "Kitchen Team",
		Specialization: models.SpecializationKitchen,
		Rating:         3,
	})

	requested := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	add := func(key string, client *models.User, group *models.Group, spec models.Specialization,
		day time.Time, price int64, priority models.Priority, status models.TaskStatus, approved bool,
	) {
		reservation := &models.Reservation{
			CleaningType:    spec,
			CleaningDate:    testutil.Date(day.Year(), day.Month(), day.Day()),
			ReservationDate: requested,
			Price:           decimal.NewFromInt(price),
			Priority:        priority,
			Status:          status,
			ApprovedByAdmin: approved,
			ClientID:        client.ID,
		}
		if group != nil {
			id := group.ID
			reservation.AssignedGroupID = &id
		}
		requested = requested.Add(time.Hour)
		r.reserve[key] = store.AddReservation(reservation)
	}

	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }

	add("g1", r.alice, r.glass, models.SpecializationGlass, day(2, 3), 100, models.PriorityLow, models.TaskStatusCompleted, true)
	add("g2", r.alice, r.glass, models.SpecializationGlass, day(2, 10), 150, models.PriorityHigh, models.TaskStatusInProgress, true)
	add("g3", r.bob, r.glass, models.SpecializationGlass, day(3, 1), 80, models.PriorityMedium, models.TaskStatusPending, false)
	add("c1", r.bob, r.kitchen, models.SpecializationKitchen, day(3, 15), 200, models.PriorityHigh, models.TaskStatusPending, false)

	return r
}

func (r *roster) filter() *TaskFilterService {
	return NewTaskFilterService(r.store)
}

func (r *roster) statistics(now time.Time) *StatisticsService {
	service := NewStatisticsService(r.store, r.filter())
	service.now = func() time.Time { return now }
	return service
}

func ids(reservations []*models.Reservation) []string {
	result := make([]string, 0, len(reservations))
	for _, reservation := range reservations {
		result = append(result, reservation.ID.String())
	}
	return result
}

func (r *roster) idsOf(keys ...string) []string {
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.reserve[key].ID.String())
	}
	return result
}
