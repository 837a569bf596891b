package authController

import (
	"context"
	"errors"
	"time"

	. "cleanroster/internal/models"
	"cleanroster/internal/repositories"
	"cleanroster/internal/services"
	"cleanroster/internal/types"
	"cleanroster/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

const TOKEN_TYPE = "bearer"

type AuthController struct {
	authService *services.AuthService
	userRepo    repositories.UserRepository
	log         logger.Logger
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"omitempty,role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        UserProfile `json:"user"`
}

type AuthControllerInterface interface {
	Signup(ctx context.Context, request *SignupRequest) (*UserProfile, error)
	Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, claims *services.Claims) error
	Authenticate(ctx context.Context, token string) (*User, *services.Claims, error)
}

func New(services services.Service, repos repositories.Repository) AuthControllerInterface {
	return NewWithRepository(services.Auth, repos.User)
}

func NewWithRepository(authService *services.AuthService, userRepo repositories.UserRepository) AuthControllerInterface {
	return &AuthController{
		authService: authService,
		userRepo:    userRepo,
		log:         logger.New("authController"),
	}
}

func (c *AuthController) Signup(ctx context.Context, request *SignupRequest) (*UserProfile, error) {
	log := c.log.TraceFromContext(ctx).Function("Signup")

	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	role, err := services.SignupRole(request.Role)
	if err != nil {
		return nil, err
	}

	exists, err := c.userRepo.Exists(ctx, request.Username, request.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, types.Errorf(types.ErrConflict, "username or email already registered")
	}

	hash, err := c.authService.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     request.Username,
		Email:        request.Email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := c.userRepo.Create(ctx, user); err != nil {
		return nil, log.Err("failed to create user", err, "username", request.Username)
	}

	log.Info("user signed up", "userID", user.ID, "role", role)
	profile := user.ToProfile()
	return &profile, nil
}

// Login accepts a username or an email. Unknown users and wrong passwords
// get the same error.
func (c *AuthController) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Login")

	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	user, err := c.userRepo.GetByLogin(ctx, request.Username)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	if user == nil || !c.authService.CheckPassword(user.PasswordHash, request.Password) {
		log.Info("login rejected", "login", request.Username)
		return nil, types.Errorf(types.ErrUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := c.authService.IssueToken(user)
	if err != nil {
		return nil, err
	}

	log.Info("user logged in", "userID", user.ID)
	return &LoginResponse{
		AccessToken: token,
		TokenType:   TOKEN_TYPE,
		ExpiresAt:   expiresAt,
		User:        user.ToProfile(),
	}, nil
}

func (c *AuthController) Logout(ctx context.Context, claims *services.Claims) error {
	return c.authService.Revoke(ctx, claims)
}

// Authenticate resolves a bearer token to its user.
func (c *AuthController) Authenticate(ctx context.Context, token string) (*User, *services.Claims, error) {
	claims, err := c.authService.ParseToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, types.Errorf(types.ErrUnauthorized, "invalid token subject")
	}

	user, err := c.userRepo.GetByID(ctx, userID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil, types.Errorf(types.ErrUnauthorized, "user not found")
	}
	if err != nil {
		return nil, nil, err
	}

	return user, claims, nil
}
