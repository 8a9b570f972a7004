package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pivotpoint/backend-go/internal/config"
	"github.com/pivotpoint/backend-go/internal/database/models"
	"github.com/pivotpoint/backend-go/internal/database/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(username, email, password string) (*models.User, string, error)
	Login(identifier, password string) (*models.User, string, error)
	ValidateToken(tokenString string) (uint, error)
	GetUser(userID uint) (*models.User, error)
}

type authService struct {
	userRepo        repository.UserRepository
	jwtSecret       string
	tokenExpiration time.Duration
	logger          *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:        userRepo,
		jwtSecret:       cfg.JWTSecret,
		tokenExpiration: time.Duration(cfg.TokenExpiration) * time.Second,
		logger:          logger,
	}
}

func (s *authService) Register(username, email, password string) (*models.User, string, error) {
	s.logger.Info("📝 [AuthService] Registration attempt", "username", username, "email", email)

	// Check if username already exists
	existingUser, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error checking username", "error", err)
		return nil, "", err
	}

	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Username already taken", "username", username)
		return nil, "", ErrUserAlreadyExists
	}

	// Check if email already exists
	existingUser, err = s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error checking email", "error", err)
		return nil, "", err
	}

	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
		return nil, "", ErrUserAlreadyExists
	}

	// Hash password with a per-call random salt
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, "", err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			// Lost the race against a concurrent registration
			s.logger.Warn("⚠️ [AuthService] Duplicate user on create", "username", username)
			return nil, "", ErrUserAlreadyExists
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to issue token", "error", err)
		return nil, "", err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	return user, token, nil
}

func (s *authService) Login(identifier, password string) (*models.User, string, error) {
	s.logger.Info("🔐 [AuthService] Login attempt")

	user, err := s.userRepo.FindByUsernameOrEmail(identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same response as a bad password, so login never reveals
			// whether the username exists
			s.logger.Warn("⚠️ [AuthService] User not found")
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, "", err
	}

	// A malformed stored hash fails the comparison and is reported as a
	// credential mismatch, never surfaced to the caller
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "user_id", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to issue token", "error", err)
		return nil, "", err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, token, nil
}

// ValidateToken checks the signature and expiry of the token, then confirms
// the referenced user still exists. The extra lookup per request means a
// token for a deleted user is rejected immediately, even if unexpired.
func (s *authService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidToken
	}

	if !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}

	if _, err := s.userRepo.FindByID(uint(userID)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrInvalidToken
		}
		return 0, err
	}

	return uint(userID), nil
}

func (s *authService) GetUser(userID uint) (*models.User, error) {
	return s.userRepo.FindByID(userID)
}

func (s *authService) issueToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(s.tokenExpiration).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// Service errors
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)
