package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/infrastructure/cache"
)

const (
	minPasswordLength  = 6
	resetTokenLifetime = 24 * time.Hour
	resetTokenPrefix   = "pwreset:"
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, current, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	// UpsertOAuthUser finds or creates a user for a verified external
	// identity and returns the usual token pair.
	UpsertOAuthUser(ctx context.Context, email, name string) (*AuthResponse, error)
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type authService struct {
	userRepo   repositories.UserRepository
	jwtService JWTService
	redis      *cache.RedisClient
	logger     *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, jwtService JWTService, redis *cache.RedisClient, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		redis:      redis,
		logger:     logger,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	email := normalizeEmail(req.Email)
	if extUser, err := s.userRepo.GetUserByEmail(ctx, email); err == nil && extUser != nil {
		return nil, apperrors.Validation("a user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Role:     models.RoleUser,
		Cohort:   models.CohortFull,
		Plan:     models.PlanBasic,
		Credits:  100,
		IsActive: true,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Password = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, apperrors.AuthInvalid("invalid email or password")
	}

	if !user.IsActive {
		return nil, apperrors.AuthInvalid("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.AuthInvalid("invalid email or password")
	}

	access, refresh, err := s.jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	user.Password = ""
	return &AuthResponse{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken, TokenRefresh)
	if err != nil {
		return "", apperrors.AuthInvalid("invalid or expired refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return "", apperrors.AuthInvalid("invalid or expired refresh token")
	}

	return s.jwtService.GenerateAccessToken(user.ID)
}

func (s *authService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("user not found")
	}
	user.Password = ""
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return apperrors.NotFound("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return apperrors.AuthInvalid("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hashed))
}

// ForgotPassword stores a single-use reset token in redis. It returns nil
// for unknown addresses so the response never reveals whether an email
// exists.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil
	}

	token := uuid.New().String()
	key := resetTokenPrefix + token
	if err := s.redis.Set(ctx, key, user.ID, resetTokenLifetime).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	// Delivery is out of band; the token is logged so an operator can
	// relay it until a mailer is wired up.
	s.logger.Info("password reset token issued", "user_id", user.ID, "token", token)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	key := resetTokenPrefix + token
	userID, err := s.redis.Get(ctx, key).Int64()
	if err != nil {
		return apperrors.AuthInvalid("invalid or expired reset token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Single use: consumed regardless of what happens next.
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("failed to delete used reset token", "error", err)
	}
	return nil
}

func (s *authService) UpsertOAuthUser(ctx context.Context, email, name string) (*AuthResponse, error) {
	email = normalizeEmail(email)
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		// OAuth users get an unusable password hash; login is only via
		// the external identity.
		placeholder, hashErr := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash placeholder password: %w", hashErr)
		}
		user = &models.User{
			Email:    email,
			Password: string(placeholder),
			Name:     name,
			Role:     models.RoleUser,
			Cohort:   models.CohortFull,
			Plan:     models.PlanBasic,
			Credits:  100,
			IsActive: true,
		}
		if err := s.userRepo.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create oauth user: %w", err)
		}
	}

	if !user.IsActive {
		return nil, apperrors.AuthInvalid("account is deactivated")
	}

	access, refresh, err := s.jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	user.Password = ""
	return &AuthResponse{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
