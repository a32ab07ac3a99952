package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"soufra_admin/internal/models"
	"soufra_admin/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type UserService interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	SetRole(ctx context.Context, email string, role models.UserRole) (*models.User, error)
	ValidateUserRole(user *models.User, requiredRole models.UserRole) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, user *models.User, password string) error {
	user.Email = normalizeEmail(user.Email)
	if !strings.Contains(user.Email, "@") {
		return models.NewValidationError("email", "a valid email is required")
	}
	if len(password) < minPasswordLength {
		return models.NewValidationError("password", "must be at least %d characters", minPasswordLength)
	}
	if user.Role == "" {
		user.Role = models.Users
	}
	if !user.Role.IsValid() {
		return models.NewValidationError("role", "unknown role %q", user.Role)
	}

	if _, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return models.NewValidationError("email", "an account with this email already exists")
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.IsActive = true

	return s.userRepo.Create(ctx, user)
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, normalizeEmail(email))
}

// VerifyPassword returns the user when email and password match. Unknown emails
// and wrong passwords produce the same error.
func (s *userService) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrAuthentication
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrAuthentication
	}
	return user, nil
}

func (s *userService) SetRole(ctx context.Context, email string, role models.UserRole) (*models.User, error) {
	if !role.IsValid() {
		return nil, models.NewValidationError("role", "unknown role %q", role)
	}
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ValidateUserRole(user *models.User, requiredRole models.UserRole) error {
	if !user.IsActive {
		return fmt.Errorf("account disabled: %w", models.ErrAuthorization)
	}
	if user.Role != requiredRole {
		return fmt.Errorf("insufficient permissions: %w", models.ErrAuthorization)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
