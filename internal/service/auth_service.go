package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/repository"
	"gymnexus/coach-api/internal/telemetry"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const tokenIssuer = "gymnexus"

// RegisterInput is the signup form of a coach.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
}

type AuthService interface {
	RegisterCoach(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
	ParseToken(token string) (*Claims, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	metrics       *telemetry.Manager
	jwtSecret     []byte
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, metrics *telemetry.Manager, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		metrics:       metrics,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
	}
}

// RegisterCoach creates a new coach account.
func (s *authService) RegisterCoach(ctx context.Context, in RegisterInput) (*domain.User, error) {
	v := &validator{}
	v.required("email", in.Email)
	v.merge(validatePassword("password", in.Password))
	if err := v.Err(); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:    email,
		Role:     domain.RoleCoach,
		Name:     in.Name,
		LastName: in.LastName,
	}
	user.RecordPassword(hash, time.Now().UTC())

	// the unique index catches a concurrent signup with the same email
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, userErr(err)
	}
	log.Infof("registered coach %s", user.ID.Hex())

	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		s.metrics.CounterLogins.WithLabelValues(telemetry.ResultFailure).Inc()
		return "", nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.CounterLogins.WithLabelValues(telemetry.ResultFailure).Inc()
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if !passwordMatches(user.PasswordHash, password) {
		s.metrics.CounterLogins.WithLabelValues(telemetry.ResultFailure).Inc()
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		log.Errorf("sign token for user %s: %s", user.ID.Hex(), err)
		return "", nil, ErrTokenGeneration
	}
	s.metrics.CounterLogins.WithLabelValues(telemetry.ResultSuccess).Inc()

	user.PasswordHash = ""
	return token, user, nil
}

// ChangePassword replaces the password after checking the current one. The
// new password must be strong and differ from the last few passwords.
func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if err := validatePassword("newPassword", newPassword); err != nil {
		return err
	}
	newHash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = s.userRepo.Update(ctx, userID, func(user *domain.User) error {
		if !passwordMatches(user.PasswordHash, currentPassword) {
			return domain.NewValidationError("currentPassword", "is incorrect")
		}
		for _, old := range user.RecentPasswordHashes() {
			if passwordMatches(old, newPassword) {
				return domain.NewValidationError("newPassword", fmt.Sprintf("must differ from the last %d passwords", domain.PasswordReuseWindow))
			}
		}
		// covers accounts whose history predates password tracking
		if passwordMatches(user.PasswordHash, newPassword) {
			return domain.NewValidationError("newPassword", "must differ from the current password")
		}
		user.RecordPassword(newHash, time.Now().UTC())
		return nil
	})
	return userErr(err)
}

// --- JWT Helper ---

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ParseToken verifies a signed token and returns its claims.
func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	if _, err := primitive.ObjectIDFromHex(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
