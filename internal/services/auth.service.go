package services

import (
	"context"
	"errors"
	"time"

	"cleanroster/config"
	"cleanroster/internal/constants"
	"cleanroster/internal/database"
	"cleanroster/internal/models"
	"cleanroster/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TOKEN_ISSUER      = "cleanroster"
	MinPasswordLength = 8
)

type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type AuthService struct {
	secret   []byte
	expiry   time.Duration
	sessions database.CacheClient
	now      func() time.Time
	log      logger.Logger
}

func NewAuthService(config config.Config, sessions database.CacheClient) *AuthService {
	return &AuthService{
		secret:   []byte(config.JWTSecret),
		expiry:   config.JWTExpiry(),
		sessions: sessions,
		now:      time.Now,
		log:      logger.New("authService"),
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", types.Errorf(types.ErrValidation, "password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", s.log.Function("HashPassword").Err("failed to hash password", err)
	}
	return string(hash), nil
}

func (s *AuthService) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs an HS256 access token for user.
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TOKEN_ISSUER,
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, s.log.Function("IssueToken").Err("failed to sign token", err, "userID", user.ID)
	}

	return signed, expiresAt, nil
}

func (s *AuthService) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithIssuer(TOKEN_ISSUER),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, types.Errorf(types.ErrUnauthorized, "invalid or expired token")
	}

	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		s.log.TraceFromContext(ctx).Function("ParseToken").Warn("failed to check token revocation", "error", err)
	}
	if revoked {
		return nil, types.Errorf(types.ErrUnauthorized, "token revoked")
	}

	return claims, nil
}

// Revoke blacklists the token id until the token would have expired anyway.
func (s *AuthService) Revoke(ctx context.Context, claims *Claims) error {
	if s.sessions == nil || claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(s.now()); remaining > 0 {
			ttl = remaining
		}
	}

	if err := database.NewCacheBuilder(s.sessions, claims.ID).
		WithHash(constants.RevokedTokenPrefix).
		WithValue("1").
		WithTTL(ttl).
		WithContext(ctx).
		Set(); err != nil {
		return s.log.TraceFromContext(ctx).Function("Revoke").Err("failed to revoke token", err, "tokenID", claims.ID)
	}

	return nil
}

func (s *AuthService) isRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.sessions == nil || tokenID == "" {
		return false, nil
	}

	return database.NewCacheBuilder(s.sessions, tokenID).
		WithHash(constants.RevokedTokenPrefix).
		WithContext(ctx).
		Exists()
}

// SignupRole validates the role requested at signup; ADMIN accounts are
// only created by the initializer.
func SignupRole(requested string) (models.Role, error) {
	if requested == "" {
		return models.RoleClient, nil
	}

	role, err := models.ParseRole(requested)
	if err != nil {
		return "", types.Errorf(types.ErrValidation, "%s", err.Error())
	}

	switch role {
	case models.RoleClient, models.RoleChief, models.RoleMember:
		return role, nil
	case models.RoleAdmin:
		return "", types.Errorf(types.ErrForbidden, "admin accounts cannot be created through signup")
	default:
		return "", errors.New("unreachable role")
	}
}
