package repositories

import (
	"context"

	"cleanroster/internal/database"
	. "cleanroster/internal/models"
	"cleanroster/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	GROUP_DEFAULT_LIMIT = 20
	GROUP_MAX_LIMIT     = 100
)

type GroupRepository interface {
	List(ctx context.Context, filters types.GroupFilters) ([]*Group, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	ChiefTaken(ctx context.Context, chiefID uuid.UUID, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, group *Group) error
	Update(ctx context.Context, group *Group, updateRating bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	TopRated(ctx context.Context, limit int) ([]*Group, error)
	FindBySpecialization(ctx context.Context, spec Specialization) ([]*Group, error)
	FindByChief(ctx context.Context, chiefID uuid.UUID) (*Group, error)
	FindByMember(ctx context.Context, memberID uuid.UUID) ([]*Group, error)
	FindAll(ctx context.Context) ([]*Group, error)
	Lock(ctx context.Context, id uuid.UUID) (*Group, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
}

type groupRepository struct {
	db  database.DB
	log logger.Logger
}

func NewGroupRepository(db database.DB) GroupRepository {
	return &groupRepository{
		db:  db,
		log: logger.New("groupRepository"),
	}
}

// withMembers materializes the member set and chief up front.
func withMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("users.username ASC")
	}).Preload("Chief")
}

func (r *groupRepository) List(ctx context.Context, filters types.GroupFilters) ([]*Group, error) {
	log := r.log.Function("List")

	limit := filters.Limit
	if limit <= 0 {
		limit = GROUP_DEFAULT_LIMIT
	}
	if limit > GROUP_MAX_LIMIT {
		limit = GROUP_MAX_LIMIT
	}

	query := withMembers(getDB(ctx, r.db)).Order("name ASC").Offset(max(filters.Skip, 0)).Limit(limit)
	if filters.Specialization != nil {
		query = query.Where("specialization = ?", *filters.Specialization)
	}

	groups := []*Group{}
	if err := query.Find(&groups).Error; err != nil {
		return nil, log.Err("failed to list groups", types.StoreError(err))
	}

	return groups, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	log := r.log.Function("GetByID")

	var group Group
	if err := withMembers(getDB(ctx, r.db)).First(&group, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get group by id", types.StoreError(err), "id", id)
	}

	return &group, nil
}

func (r *groupRepository) NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "name = ?", name, excludeID)
}

func (r *groupRepository) ChiefTaken(ctx context.Context, chiefID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "chief_id = ?", chiefID, excludeID)
}

func (r *groupRepository) exists(ctx context.Context, condition string, value any, excludeID *uuid.UUID) (bool, error) {
	log := r.log.Function("exists")

	query := getDB(ctx, r.db).Model(&Group{}).Where(condition, value)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, log.Err("failed to check group existence", types.StoreError(err), "condition", condition)
	}

	return count > 0, nil
}

func (r *groupRepository) Create(ctx context.Context, group *Group) error {
	log := r.log.Function("Create")

	// Members are existing users, only the join rows are written.
	if err := getDB(ctx, r.db).Omit("Members.*", "Chief").Create(group).Error; err != nil {
		return log.Err("failed to create group", types.StoreError(err), "name", group.Name)
	}

	return nil
}

// groupColumns lists the columns an update writes. Rating is only written
// when the caller changes it, so an edit never replays a stale rating over
// one committed by a concurrent client rating.
func groupColumns(group *Group, updateRating bool) map[string]any {
	columns := map[string]any{
		"name":           group.Name,
		"specialization": group.Specialization,
		"chief_id":       group.ChiefID,
	}
	if updateRating {
		columns["rating"] = group.Rating
	}
	return columns
}

func (r *groupRepository) Update(ctx context.Context, group *Group, updateRating bool) error {
	log := r.log.Function("Update")
	db := getDB(ctx, r.db)

	result := db.Model(&Group{}).Where("id = ?", group.ID).Updates(groupColumns(group, updateRating))
	if result.Error != nil {
		return log.Err("failed to update group", types.StoreError(result.Error), "id", group.ID)
	}
	if result.RowsAffected == 0 {
		return log.Err("failed to update group", types.Errorf(types.ErrNotFound, "group %s", group.ID), "id", group.ID)
	}

	if err := db.Model(group).Omit("Members.*").Association("Members").Replace(group.Members); err != nil {
		return log.Err("failed to replace group members", types.StoreError(err), "id", group.ID)
	}

	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")
	db := getDB(ctx, r.db)

	var references int64
	if err := db.Model(&Reservation{}).Where("assigned_group_id = ?", id).Count(&references).Error; err != nil {
		return log.Err("failed to count group reservations", types.StoreError(err), "id", id)
	}
	if references > 0 {
		return types.Errorf(types.ErrConflict, "group is assigned to %d reservations", references)
	}

	group := Group{BaseUUIDModel: BaseUUIDModel{ID: id}}
	result := db.Select("Members").Delete(&group)
	if result.Error != nil {
		return log.Err("failed to delete group", types.StoreError(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return types.Errorf(types.ErrNotFound, "group %s", id)
	}

	return nil
}

func (r *groupRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := getDB(ctx, r.db).Model(&Group{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count groups", types.StoreError(err))
	}

	return count, nil
}

func (r *groupRepository) TopRated(ctx context.Context, limit int) ([]*Group, error) {
	log := r.log.Function("TopRated")

	groups := []*Group{}
	if err := getDB(ctx, r.db).Order("rating DESC").Order("name ASC").Limit(limit).Find(&groups).Error; err != nil {
		return nil, log.Err("failed to get top rated groups", types.StoreError(err))
	}

	return groups, nil
}

// FindBySpecialization returns candidates in name order, which is the
// encounter order assignment ties are broken by.
func (r *groupRepository) FindBySpecialization(ctx context.Context, spec Specialization) ([]*Group, error) {
	log := r.log.Function("FindBySpecialization")

	groups := []*Group{}
	if err := getDB(ctx, r.db).Where("specialization = ?", spec).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, log.Err("failed to find groups by specialization", types.StoreError(err), "specialization", spec)
	}

	return groups, nil
}

// FindByChief returns nil without error when the user chiefs no group.
func (r *groupRepository) FindByChief(ctx context.Context, chiefID uuid.UUID) (*Group, error) {
	log := r.log.Function("FindByChief")

	groups := []*Group{}
	if err := withMembers(getDB(ctx, r.db)).Where("chief_id = ?", chiefID).Limit(1).Find(&groups).Error; err != nil {
		return nil, log.Err("failed to find group by chief", types.StoreError(err), "chiefID", chiefID)
	}

	if len(groups) == 0 {
		return nil, nil
	}
	return groups[0], nil
}

func (r *groupRepository) FindByMember(ctx context.Context, memberID uuid.UUID) ([]*Group, error) {
	log := r.log.Function("FindByMember")

	groups := []*Group{}
	err := withMembers(getDB(ctx, r.db)).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", memberID).
		Order("groups.name ASC").
		Find(&groups).Error
	if err != nil {
		return nil, log.Err("failed to find groups by member", types.StoreError(err), "memberID", memberID)
	}

	return groups, nil
}

func (r *groupRepository) FindAll(ctx context.Context) ([]*Group, error) {
	log := r.log.Function("FindAll")

	groups := []*Group{}
	if err := getDB(ctx, r.db).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, log.Err("failed to find all groups", types.StoreError(err))
	}

	return groups, nil
}

// Lock reads the group row with SELECT ... FOR UPDATE. It only serializes
// writers when ctx carries a transaction.
func (r *groupRepository) Lock(ctx context.Context, id uuid.UUID) (*Group, error) {
	log := r.log.Function("Lock")

	var group Group
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, log.Err("failed to lock group", types.StoreError(err), "id", id)
	}

	return &group, nil
}

func (r *groupRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	log := r.log.Function("UpdateRating")

	result := getDB(ctx, r.db).Model(&Group{}).Where("id = ?", id).Update("rating", rating)
	if result.Error != nil {
		return log.Err("failed to update group rating", types.StoreError(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return types.Errorf(types.ErrNotFound, "group %s", id)
	}

	return nil
}
