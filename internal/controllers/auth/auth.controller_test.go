package authController

import (
	"context"
	"strings"
	"testing"

	"cleanroster/config"
	. "cleanroster/internal/models"
	"cleanroster/internal/repositories"
	"cleanroster/internal/services"
	"cleanroster/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	repositories.UserRepository
	users map[uuid.UUID]*User
}

func (f *fakeUsers) Exists(ctx context.Context, username, email string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username || user.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Create(ctx context.Context, user *User) error {
	user.ID = uuid.New()
	user.Email = strings.ToLower(user.Email)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByLogin(ctx context.Context, login string) (*User, error) {
	for _, user := range f.users {
		if user.Username == login || user.Email == strings.ToLower(login) {
			return user, nil
		}
	}
	return nil, types.Errorf(types.ErrNotFound, "user %s", login)
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "user %s", id)
	}
	return user, nil
}

func newController() (AuthControllerInterface, *fakeUsers) {
	users := &fakeUsers{users: map[uuid.UUID]*User{}}
	authService := services.NewAuthService(config.Config{JWTSecret: "test-secret", JWTExpiryMinutes: 30}, nil)
	return NewWithRepository(authService, users), users
}

func TestSignupLoginAuthenticate(t *testing.T) {
	controller, _ := newController()
	ctx := context.Background()

	profile, err := controller.Signup(ctx, &SignupRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleClient, profile.Role)

	response, err := controller.Login(ctx, &LoginRequest{Username: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, TOKEN_TYPE, response.TokenType)
	assert.NotEmpty(t, response.AccessToken)
	assert.Equal(t, profile.ID, response.User.ID)

	user, claims, err := controller.Authenticate(ctx, response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	require.NotNil(t, claims)
	assert.NoError(t, controller.Logout(ctx, claims))
}

func TestSignup_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		request  SignupRequest
		expected error
	}{
		{
			name:     "admin role",
			request:  SignupRequest{Username: "root", Email: "root@example.com", Password: "password123", Role: "ADMIN"},
			expected: types.ErrForbidden,
		},
		{
			name:     "unknown role",
			request:  SignupRequest{Username: "root", Email: "root@example.com", Password: "password123", Role: "janitor"},
			expected: types.ErrValidation,
		},
		{
			name:     "short password",
			request:  SignupRequest{Username: "root", Email: "root@example.com", Password: "short"},
			expected: types.ErrValidation,
		},
		{
			name:     "bad email",
			request:  SignupRequest{Username: "root", Email: "root", Password: "password123"},
			expected: types.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, users := newController()

			_, err := controller.Signup(context.Background(), &tt.request)
			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, users.users)
		})
	}
}

func TestSignup_Duplicate(t *testing.T) {
	controller, _ := newController()
	ctx := context.Background()
	request := &SignupRequest{Username: "bob", Email: "bob@example.com", Password: "password123", Role: "chief"}

	_, err := controller.Signup(ctx, request)
	require.NoError(t, err)

	_, err = controller.Signup(ctx, request)
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestLogin_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	controller, _ := newController()
	ctx := context.Background()

	_, err := controller.Signup(ctx, &SignupRequest{Username: "carol", Email: "carol@example.com", Password: "password123"})
	require.NoError(t, err)

	_, wrongPassword := controller.Login(ctx, &LoginRequest{Username: "carol", Password: "password124"})
	_, unknownUser := controller.Login(ctx, &LoginRequest{Username: "dave", Password: "password123"})

	assert.ErrorIs(t, wrongPassword, types.ErrUnauthorized)
	assert.ErrorIs(t, unknownUser, types.ErrUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	controller, users := newController()
	ctx := context.Background()

	_, err := controller.Signup(ctx, &SignupRequest{Username: "erin", Email: "erin@example.com", Password: "password123"})
	require.NoError(t, err)
	response, err := controller.Login(ctx, &LoginRequest{Username: "erin", Password: "password123"})
	require.NoError(t, err)

	for id := range users.users {
		delete(users.users, id)
	}

	_, _, err = controller.Authenticate(ctx, response.AccessToken)
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	_, _, err = controller.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}
