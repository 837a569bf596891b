package groupController

import (
	"context"
	"testing"

	"cleanroster/config"
	"cleanroster/internal/events"
	. "cleanroster/internal/models"
	"cleanroster/internal/repositories"
	"cleanroster/internal/testutil"
	"cleanroster/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroups struct {
	repositories.GroupRepository
	groups    map[uuid.UUID]*Group
	deleteErr error
	ops       []string
	afterGet  func(id uuid.UUID)
}

func (f *fakeGroups) Lock(ctx context.Context, id uuid.UUID) (*Group, error) {
	f.ops = append(f.ops, "lock")
	group, ok := f.groups[id]
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "group %s", id)
	}
	clone := *group
	return &clone, nil
}

func (f *fakeGroups) GetByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "group %s", id)
	}
	clone := *group
	if f.afterGet != nil {
		f.afterGet(id)
	}
	return &clone, nil
}

func (f *fakeGroups) NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	for id, group := range f.groups {
		if group.Name == name && (excludeID == nil || *excludeID != id) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroups) ChiefTaken(ctx context.Context, chiefID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	for id, group := range f.groups {
		if group.IsChief(chiefID) && (excludeID == nil || *excludeID != id) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroups) Create(ctx context.Context, group *Group) error {
	group.ID = uuid.New()
	clone := *group
	f.groups[group.ID] = &clone
	return nil
}

func (f *fakeGroups) Update(ctx context.Context, group *Group, updateRating bool) error {
	f.ops = append(f.ops, "update")
	clone := *group
	if stored, ok := f.groups[group.ID]; ok && !updateRating {
		clone.Rating = stored.Rating
	}
	f.groups[group.ID] = &clone
	return nil
}

func (f *fakeGroups) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.groups, id)
	return nil
}

type fakeUsers struct {
	repositories.UserRepository
	users map[uuid.UUID]*User
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "user %s", id)
	}
	return user, nil
}

func (f *fakeUsers) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	var found []*User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			found = append(found, user)
		}
	}
	return found, nil
}

type countingPublisher struct {
	count int
}

func (p *countingPublisher) Publish(ctx context.Context, channel events.Channel, event events.Event) error {
	p.count++
	return nil
}

type fixture struct {
	groups     *fakeGroups
	publisher  *countingPublisher
	controller GroupControllerInterface
	admin      *User
	chief      *User
	member     *User
	client     *User
}

func newFixture() *fixture {
	f := &fixture{
		groups:    &fakeGroups{groups: map[uuid.UUID]*Group{}},
		publisher: &countingPublisher{},
		admin:     testutil.NewUser(RoleAdmin, "admin"),
		chief:     testutil.NewUser(RoleChief, "chief"),
		member:    testutil.NewUser(RoleMember, "member"),
		client:    testutil.NewUser(RoleClient, "client"),
	}
	users := &fakeUsers{users: map[uuid.UUID]*User{}}
	for _, user := range []*User{f.admin, f.chief, f.member, f.client} {
		users.users[user.ID] = user
	}

	f.controller = NewWithRepositories(f.groups, users, testutil.NewMemStore(), f.publisher, config.Config{})
	return f
}

func TestCreate(t *testing.T) {
	f := newFixture()

	group, err := f.controller.Create(context.Background(), f.admin, &GroupRequest{
		Name:           "Crystal Crew",
		Specialization: "glass",
		ChiefID:        &f.chief.ID,
		MemberIDs:      []uuid.UUID{f.member.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, SpecializationGlass, group.Specialization)
	assert.Equal(t, DefaultGroupRating, group.Rating)
	assert.True(t, group.IsChief(f.chief.ID))
	assert.True(t, group.HasMember(f.member.ID))
	assert.Equal(t, 1, f.publisher.count)
}

func TestCreate_Rejections(t *testing.T) {
	tooHigh := 5.5

	tests := []struct {
		name     string
		user     func(f *fixture) *User
		request  func(f *fixture) *GroupRequest
		expected error
	}{
		{
			name:     "non admin",
			user:     func(f *fixture) *User { return f.chief },
			request:  func(f *fixture) *GroupRequest { return &GroupRequest{Name: "A", Specialization: "GLASS"} },
			expected: types.ErrForbidden,
		},
		{
			name:     "unauthenticated",
			user:     func(f *fixture) *User { return nil },
			request:  func(f *fixture) *GroupRequest { return &GroupRequest{Name: "A", Specialization: "GLASS"} },
			expected: types.ErrUnauthorized,
		},
		{
			name:     "unknown specialization",
			user:     func(f *fixture) *User { return f.admin },
			request:  func(f *fixture) *GroupRequest { return &GroupRequest{Name: "A", Specialization: "CARPET"} },
			expected: types.ErrValidation,
		},
		{
			name: "rating out of range",
			user: func(f *fixture) *User { return f.admin },
			request: func(f *fixture) *GroupRequest {
				return &GroupRequest{Name: "A", Specialization: "GLASS", Rating: &tooHigh}
			},
			expected: types.ErrValidation,
		},
		{
			name: "chief without chief role",
			user: func(f *fixture) *User { return f.admin },
			request: func(f *fixture) *GroupRequest {
				return &GroupRequest{Name: "A", Specialization: "GLASS", ChiefID: &f.member.ID}
			},
			expected: types.ErrValidation,
		},
		{
			name: "unknown chief",
			user: func(f *fixture) *User { return f.admin },
			request: func(f *fixture) *GroupRequest {
				missing := uuid.New()
				return &GroupRequest{Name: "A", Specialization: "GLASS", ChiefID: &missing}
			},
			expected: types.ErrValidation,
		},
		{
			name: "client as member",
			user: func(f *fixture) *User { return f.admin },
			request: func(f *fixture) *GroupRequest {
				return &GroupRequest{Name: "A", Specialization: "GLASS", MemberIDs: []uuid.UUID{f.client.ID}}
			},
			expected: types.ErrValidation,
		},
		{
			name: "too many members",
			user: func(f *fixture) *User { return f.admin },
			request: func(f *fixture) *GroupRequest {
				ids := make([]uuid.UUID, MaxGroupMembers+1)
				for i := range ids {
					ids[i] = uuid.New()
				}
				return &GroupRequest{Name: "A", Specialization: "GLASS", MemberIDs: ids}
			},
			expected: types.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.controller.Create(context.Background(), tt.user(f), tt.request(f))
			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, f.groups.groups)
			assert.Zero(t, f.publisher.count)
		})
	}
}

func TestCreate_Conflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.controller.Create(ctx, f.admin, &GroupRequest{
		Name:           "Crystal Crew",
		Specialization: "GLASS",
		ChiefID:        &f.chief.ID,
	})
	require.NoError(t, err)

	_, err = f.controller.Create(ctx, f.admin, &GroupRequest{Name: "Crystal Crew", Specialization: "SALON"})
	assert.ErrorIs(t, err, types.ErrConflict)

	_, err = f.controller.Create(ctx, f.admin, &GroupRequest{
		Name:           "Second Crew",
		Specialization: "SALON",
		ChiefID:        &f.chief.ID,
	})
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestUpdate_KeepsOwnNameAndChief(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	rating := 4.5

	group, err := f.controller.Create(ctx, f.admin, &GroupRequest{
		Name:           "Crystal Crew",
		Specialization: "GLASS",
		ChiefID:        &f.chief.ID,
	})
	require.NoError(t, err)

	updated, err := f.controller.Update(ctx, f.admin, group.ID, &GroupRequest{
		Name:           "Crystal Crew",
		Specialization: "GLASS",
		Rating:         &rating,
		ChiefID:        &f.chief.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.5, updated.Rating)

	_, err = f.controller.Update(ctx, f.admin, uuid.New(), &GroupRequest{Name: "X", Specialization: "GLASS"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUpdate_RenameKeepsCommittedRating(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	group, err := f.controller.Create(ctx, f.admin, &GroupRequest{
		Name:           "Crystal Crew",
		Specialization: "GLASS",
	})
	require.NoError(t, err)
	f.groups.groups[group.ID].Rating = 4.5
	f.groups.ops = nil

	// A client rating lands between the read and the write of the edit.
	f.groups.afterGet = func(id uuid.UUID) {
		f.groups.groups[id].Rating = 4.75
	}

	updated, err := f.controller.Update(ctx, f.admin, group.ID, &GroupRequest{
		Name:           "Crystal Clear",
		Specialization: "GLASS",
	})
	require.NoError(t, err)

	assert.Equal(t, "Crystal Clear", updated.Name)
	assert.Equal(t, 4.75, updated.Rating)
	assert.Equal(t, []string{"lock", "update"}, f.groups.ops, "row is locked before it is written")
}

func TestDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	group, err := f.controller.Create(ctx, f.admin, &GroupRequest{Name: "Crystal Crew", Specialization: "GLASS"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.controller.Delete(ctx, f.member, group.ID), types.ErrForbidden)

	f.groups.deleteErr = types.Errorf(types.ErrConflict, "group has reservations")
	assert.ErrorIs(t, f.controller.Delete(ctx, f.admin, group.ID), types.ErrConflict)

	f.groups.deleteErr = nil
	require.NoError(t, f.controller.Delete(ctx, f.admin, group.ID))
	assert.Empty(t, f.groups.groups)
}
