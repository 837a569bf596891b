// Package testutil holds fakes shared by package tests. It is imported only
// from _test.go files and is never wired into the API or migration binaries.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"cleanroster/internal/models"
	"cleanroster/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type txKey struct{}

// MemStore is an in-memory entity store with the same contract as the SQL
// backed one. Transactions are serialized and rolled back from a snapshot.
type MemStore struct {
	mu           sync.Mutex
	txMu         sync.Mutex
	groups       map[uuid.UUID]*models.Group
	reservations map[uuid.UUID]*models.Reservation
	failures     map[string]error
	calls        map[string]int
	interleaved  bool
	lockPause    time.Duration
}

func NewMemStore() *MemStore {
	return &MemStore{
		groups:       map[uuid.UUID]*models.Group{},
		reservations: map[uuid.UUID]*models.Reservation{},
		failures:     map[string]error{},
		calls:        map[string]int{},
	}
}

// Interleaved stops serializing transactions and pauses after every
// LockGroup read, so concurrent transactions overlap between reading a group
// and writing it. LockGroup takes no lock of its own in this mode: callers
// must serialize group writers themselves. Failed transactions are not
// rolled back.
func (m *MemStore) Interleaved(pause time.Duration) *MemStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interleaved = true
	m.lockPause = pause
	return m
}

// FailOn makes every later call to method return err.
func (m *MemStore) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method] = err
}

func (m *MemStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MemStore) enter(method string) error {
	m.calls[method]++
	return m.failures[method]
}

func (m *MemStore) AddGroup(group *models.Group) *models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if group.Rating == 0 {
		group.Rating = models.DefaultGroupRating
	}
	m.groups[group.ID] = copyGroup(group)
	return group
}

func (m *MemStore) AddReservation(reservation *models.Reservation) *models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	reservation.ApplyDefaults(time.Now())
	m.reservations[reservation.ID] = copyReservation(reservation)
	return reservation
}

// Group returns the stored state of a group, or nil.
func (m *MemStore) Group(id uuid.UUID) *models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	group, ok := m.groups[id]
	if !ok {
		return nil
	}
	return copyGroup(group)
}

// Reservation returns the stored state of a reservation, or nil.
func (m *MemStore) Reservation(id uuid.UUID) *models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()

	reservation, ok := m.reservations[id]
	if !ok {
		return nil
	}
	return copyReservation(reservation)
}

func (m *MemStore) FindGroupsBySpecialization(ctx context.Context, spec models.Specialization) ([]*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("FindGroupsBySpecialization"); err != nil {
		return nil, err
	}

	return m.sortedGroups(func(g *models.Group) bool { return g.Specialization == spec }), nil
}

func (m *MemStore) FindGroupByChief(ctx context.Context, userID uuid.UUID) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("FindGroupByChief"); err != nil {
		return nil, err
	}

	groups := m.sortedGroups(func(g *models.Group) bool { return g.IsChief(userID) })
	if len(groups) == 0 {
		return nil, nil
	}
	return groups[0], nil
}

func (m *MemStore) FindGroupsByMember(ctx context.Context, userID uuid.UUID) ([]*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("FindGroupsByMember"); err != nil {
		return nil, err
	}

	return m.sortedGroups(func(g *models.Group) bool { return g.HasMember(userID) }), nil
}

func (m *MemStore) FindAllGroups(ctx context.Context) ([]*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("FindAllGroups"); err != nil {
		return nil, err
	}

	return m.sortedGroups(func(*models.Group) bool { return true }), nil
}

func (m *MemStore) FindReservations(ctx context.Context, query types.ReservationQuery) ([]*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("FindReservations"); err != nil {
		return nil, err
	}

	result := []*models.Reservation{}
	for _, reservation := range m.reservations {
		if matches(query, reservation) {
			result = append(result, copyReservation(reservation))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.CleaningTime().Equal(b.CleaningTime()) {
			return a.CleaningTime().Before(b.CleaningTime())
		}
		if !a.ReservationDate.Equal(b.ReservationDate) {
			return a.ReservationDate.Before(b.ReservationDate)
		}
		return a.ID.String() < b.ID.String()
	})

	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}
	return result, nil
}

func (m *MemStore) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetReservation"); err != nil {
		return nil, err
	}

	reservation, ok := m.reservations[id]
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "reservation %s", id)
	}
	return copyReservation(reservation), nil
}

func (m *MemStore) SumReservationPrices(ctx context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("SumReservationPrices"); err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, reservation := range m.reservations {
		total = total.Add(reservation.Price)
	}
	return total, nil
}

func (m *MemStore) LockGroup(ctx context.Context, groupID uuid.UUID) (*models.Group, error) {
	m.mu.Lock()
	if err := m.enter("LockGroup"); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	group, ok := m.groups[groupID]
	if !ok {
		m.mu.Unlock()
		return nil, types.Errorf(types.ErrNotFound, "group %s", groupID)
	}
	clone := copyGroup(group)
	pause := m.lockPause
	m.mu.Unlock()

	if pause > 0 {
		time.Sleep(pause)
	}
	return clone, nil
}

func (m *MemStore) UpdateGroupRating(ctx context.Context, groupID uuid.UUID, rating float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateGroupRating"); err != nil {
		return err
	}

	group, ok := m.groups[groupID]
	if !ok {
		return types.Errorf(types.ErrNotFound, "group %s", groupID)
	}
	group.Rating = rating
	return nil
}

func (m *MemStore) UpdateReservation(ctx context.Context, id uuid.UUID, update types.ReservationUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateReservation"); err != nil {
		return err
	}

	reservation, ok := m.reservations[id]
	if !ok {
		return types.Errorf(types.ErrNotFound, "reservation %s", id)
	}
	update.Apply(reservation)
	return nil
}

func (m *MemStore) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateReservation"); err != nil {
		return err
	}

	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	reservation.ApplyDefaults(time.Now())
	if err := reservation.Validate(); err != nil {
		return types.Errorf(types.ErrValidation, "%s", err.Error())
	}
	m.reservations[reservation.ID] = copyReservation(reservation)
	return nil
}

// WithinTransaction restores the pre-call state when fn fails. Outside
// Interleaved mode transactions run one at a time.
func (m *MemStore) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	interleaved := m.interleaved
	m.mu.Unlock()
	if interleaved {
		m.mu.Lock()
		err := m.enter("WithinTransaction")
		m.mu.Unlock()
		if err != nil {
			return err
		}
		return fn(context.WithValue(ctx, txKey{}, true))
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	if err := m.enter("WithinTransaction"); err != nil {
		m.mu.Unlock()
		return err
	}
	groups, reservations := m.snapshot()
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.mu.Lock()
		m.groups, m.reservations = groups, reservations
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MemStore) snapshot() (map[uuid.UUID]*models.Group, map[uuid.UUID]*models.Reservation) {
	groups := make(map[uuid.UUID]*models.Group, len(m.groups))
	for id, group := range m.groups {
		groups[id] = copyGroup(group)
	}
	reservations := make(map[uuid.UUID]*models.Reservation, len(m.reservations))
	for id, reservation := range m.reservations {
		reservations[id] = copyReservation(reservation)
	}
	return groups, reservations
}

func (m *MemStore) sortedGroups(keep func(*models.Group) bool) []*models.Group {
	result := []*models.Group{}
	for _, group := range m.groups {
		if keep(group) {
			result = append(result, copyGroup(group))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func matches(query types.ReservationQuery, r *models.Reservation) bool {
	if query.ClientID != nil && r.ClientID != *query.ClientID {
		return false
	}
	if query.ScopeToGroups {
		if r.AssignedGroupID == nil {
			return false
		}
		found := false
		for _, id := range query.AssignedGroupIDs {
			if id == *r.AssignedGroupID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if query.Status != nil && r.Status != *query.Status {
		return false
	}
	if query.CleaningFrom != nil && r.CleaningTime().Before(*query.CleaningFrom) {
		return false
	}
	if query.CleaningBefore != nil && !r.CleaningTime().Before(*query.CleaningBefore) {
		return false
	}
	return true
}

func copyGroup(group *models.Group) *models.Group {
	clone := *group
	clone.Members = append([]*models.User(nil), group.Members...)
	return &clone
}

func copyReservation(reservation *models.Reservation) *models.Reservation {
	clone := *reservation
	if reservation.AssignedGroupID != nil {
		id := *reservation.AssignedGroupID
		clone.AssignedGroupID = &id
	}
	if reservation.ClientRating != nil {
		rating := *reservation.ClientRating
		clone.ClientRating = &rating
	}
	if reservation.RatedAt != nil {
		ratedAt := *reservation.RatedAt
		clone.RatedAt = &ratedAt
	}
	return &clone
}

// Date builds a cleaning date at midnight UTC.
func Date(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func NewUser(role models.Role, username string) *models.User {
	return &models.User{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		Username:      username,
		Email:         username + "@example.com",
		Role:          role,
	}
}
