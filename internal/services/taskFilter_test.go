package services

import (
	"context"
	"testing"
	"time"

	"cleanroster/internal/models"
	"cleanroster/internal/testutil"
	"cleanroster/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(m time.Month, d int) *time.Time {
	t := time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestFilteredView_RoleScoping(t *testing.T) {
	r := newRoster()
	orphanChief := testutil.NewUser(models.RoleChief, "orphan")

	tests := []struct {
		name     string
		caller   *models.User
		expected []string
	}{
		{"admin sees everything", r.admin, r.idsOf("g2", "c1", "g3", "g1")},
		{"chief sees own group", r.chief, r.idsOf("g2", "g3", "g1")},
		{"member sees member groups", r.member, r.idsOf("g2", "g3", "g1")},
		{"client sees own reservations", r.alice, r.idsOf("g2", "g1")},
		{"other client", r.bob, r.idsOf("c1", "g3")},
		{"chief without group", orphanChief, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.filter().FilteredView(context.Background(), tt.caller, types.TaskFilters{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestFilteredView_Filters(t *testing.T) {
	r := newRoster()
	pending := models.TaskStatusPending

	tests := []struct {
		name     string
		filters  types.TaskFilters
		expected []string
	}{
		{
			name:     "status",
			filters:  types.TaskFilters{Status: &pending},
			expected: r.idsOf("c1", "g3"),
		},
		{
			name:     "inclusive date range",
			filters:  types.TaskFilters{DateFrom: date(2, 10), DateTo: date(3, 1)},
			expected: r.idsOf("g2", "g3"),
		},
		{
			name:     "single day",
			filters:  types.TaskFilters{DateFrom: date(3, 1), DateTo: date(3, 1)},
			expected: r.idsOf("g3"),
		},
		{
			name:     "open ended from",
			filters:  types.TaskFilters{DateFrom: date(3, 2)},
			expected: r.idsOf("c1"),
		},
		{
			name:     "price ascending",
			filters:  types.TaskFilters{SortBy: types.SortPrice},
			expected: r.idsOf("g3", "g1", "g2", "c1"),
		},
		{
			name:     "price descending",
			filters:  types.TaskFilters{SortBy: types.SortPrice, SortDesc: true},
			expected: r.idsOf("c1", "g2", "g1", "g3"),
		},
		{
			name:     "priority ascending",
			filters:  types.TaskFilters{SortBy: types.SortPriority},
			expected: r.idsOf("g1", "g3", "g2", "c1"),
		},
		{
			name:     "priority descending keeps date tie break",
			filters:  types.TaskFilters{SortBy: types.SortPriority, SortDesc: true},
			expected: r.idsOf("g2", "c1", "g3", "g1"),
		},
		{
			name:     "cleaning date descending",
			filters:  types.TaskFilters{SortBy: types.SortCleaningDate, SortDesc: true},
			expected: r.idsOf("c1", "g3", "g2", "g1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.filter().FilteredView(context.Background(), r.admin, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestFilteredView_Rejections(t *testing.T) {
	r := newRoster()
	ghost := testutil.NewUser(models.Role("GHOST"), "ghost")

	tests := []struct {
		name     string
		caller   *models.User
		filters  types.TaskFilters
		expected error
	}{
		{"unknown sort", r.admin, types.TaskFilters{SortBy: types.SortField("address")}, types.ErrValidation},
		{"reversed range", r.admin, types.TaskFilters{DateFrom: date(3, 1), DateTo: date(2, 1)}, types.ErrValidation},
		{"nil caller", nil, types.TaskFilters{}, types.ErrForbidden},
		{"unknown role", ghost, types.TaskFilters{}, types.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.filter().FilteredView(context.Background(), tt.caller, tt.filters)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestFilteredView_StoreFailure(t *testing.T) {
	r := newRoster()
	r.store.FailOn("FindReservations", types.ErrStoreUnavailable)

	_, err := r.filter().FilteredView(context.Background(), r.admin, types.TaskFilters{})
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
}

func TestCanView(t *testing.T) {
	r := newRoster()
	ctx := context.Background()

	tests := []struct {
		name     string
		caller   *models.User
		key      string
		expected bool
	}{
		{"admin any", r.admin, "c1", true},
		{"chief own group", r.chief, "g1", true},
		{"chief other group", r.chief, "c1", false},
		{"member own group", r.member, "g3", true},
		{"client own", r.alice, "g1", true},
		{"client other", r.alice, "g3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := r.filter().CanView(ctx, tt.caller, r.reserve[tt.key])
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestWorkloadGroups(t *testing.T) {
	r := newRoster()
	ctx := context.Background()

	groups, err := r.filter().WorkloadGroups(ctx, r.admin)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Glass Team", groups[0].Name)
	assert.Equal(t, "Kitchen Team", groups[1].Name)

	groups, err = r.filter().WorkloadGroups(ctx, r.chief)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, r.glass.ID, groups[0].ID)

	groups, err = r.filter().WorkloadGroups(ctx, testutil.NewUser(models.RoleChief, "orphan"))
	require.NoError(t, err)
	assert.Empty(t, groups)

	for _, caller := range []*models.User{r.member, r.alice} {
		_, err := r.filter().WorkloadGroups(ctx, caller)
		assert.ErrorIs(t, err, types.ErrForbidden)
	}
}

func TestSortReservations_DefaultIsPriorityThenDate(t *testing.T) {
	high := &models.Reservation{Priority: models.PriorityHigh, CleaningDate: testutil.Date(2026, 5, 2)}
	highEarly := &models.Reservation{Priority: models.PriorityHigh, CleaningDate: testutil.Date(2026, 5, 1)}
	low := &models.Reservation{Priority: models.PriorityLow, CleaningDate: testutil.Date(2026, 4, 1)}
	medium := &models.Reservation{Priority: models.PriorityMedium, CleaningDate: testutil.Date(2026, 6, 1)}

	list := []*models.Reservation{low, high, medium, highEarly}
	SortReservations(list, types.SortDefault, false)

	assert.Equal(t, []*models.Reservation{highEarly, high, medium, low}, list)
}
