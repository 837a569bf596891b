package repositories

import (
	"context"
	"strings"

	"cleanroster/internal/constants"
	"cleanroster/internal/database"
	. "cleanroster/internal/models"
	"cleanroster/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user *User) error
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)
	FindByRole(ctx context.Context, role Role) ([]*User, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if found := r.getCacheByID(ctx, id, &user); found {
		return &user, nil
	}

	if err := getDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get user by id", types.StoreError(err), "id", id)
	}

	r.addUserToCache(ctx, &user)
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	log := r.log.Function("GetByUsername")

	var user User
	if err := getDB(ctx, r.db).First(&user, "username = ?", strings.TrimSpace(username)).Error; err != nil {
		return nil, log.Err("failed to get user by username", types.StoreError(err), "username", username)
	}

	return &user, nil
}

// GetByLogin resolves either a username or an email address.
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	log := r.log.Function("GetByLogin")
	login = strings.TrimSpace(login)

	var user User
	err := getDB(ctx, r.db).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&user).Error
	if err != nil {
		return nil, log.Err("failed to get user by login", types.StoreError(err), "login", login)
	}

	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	log := r.log.Function("Exists")

	var count int64
	err := getDB(ctx, r.db).Model(&User{}).
		Where("username = ? OR email = ?", strings.TrimSpace(username), strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, log.Err("failed to check user existence", types.StoreError(err))
	}

	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(user).Error; err != nil {
		return log.Err("failed to create user", types.StoreError(err), "username", user.Username)
	}

	return nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	log := r.log.Function("FindByIDs")

	users := []*User{}
	if len(ids) == 0 {
		return users, nil
	}

	if err := getDB(ctx, r.db).Where("id IN ?", ids).Order("username ASC").Find(&users).Error; err != nil {
		return nil, log.Err("failed to find users by ids", types.StoreError(err), "count", len(ids))
	}

	return users, nil
}

func (r *userRepository) FindByRole(ctx context.Context, role Role) ([]*User, error) {
	log := r.log.Function("FindByRole")

	users := []*User{}
	if err := getDB(ctx, r.db).Where("role = ?", role).Order("username ASC").Find(&users).Error; err != nil {
		return nil, log.Err("failed to find users by role", types.StoreError(err), "role", role)
	}

	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role Role) (int64, error) {
	log := r.log.Function("CountByRole")

	var count int64
	if err := getDB(ctx, r.db).Model(&User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count users by role", types.StoreError(err), "role", role)
	}

	return count, nil
}

func (r *userRepository) getCacheByID(ctx context.Context, id uuid.UUID, user *User) bool {
	if r.db.Cache.User == nil {
		return false
	}

	found, err := database.NewCacheBuilder(r.db.Cache.User, id).
		WithHash(constants.UserCachePrefix).
		WithContext(ctx).
		Get(user)
	if err != nil {
		r.log.Function("getCacheByID").Warn("failed to read user cache", "userID", id, "error", err)
		return false
	}

	return found
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) {
	if r.db.Cache.User == nil {
		return
	}

	// PasswordHash is excluded from JSON, cached users are only used for
	// request identity.
	if err := database.NewCacheBuilder(r.db.Cache.User, user.ID).
		WithHash(constants.UserCachePrefix).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Function("addUserToCache").Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}
}
