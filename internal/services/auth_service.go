package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"soufra_admin/internal/logger"
	"soufra_admin/internal/models"
	"soufra_admin/internal/redis"

	"github.com/google/uuid"
)

// SessionStore keeps issued sessions. Implemented by the Redis client.
type SessionStore interface {
	SetSession(ctx context.Context, sessionID string, data *redis.SessionData, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type Session struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// AuthService signs accounts in and out. Only super admins get a session; every
// other role is refused after the credentials check.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Authorize(ctx context.Context, token string) (*redis.SessionData, error)
}

type authService struct {
	users      UserService
	sessions   SessionStore
	ttl        time.Duration
	signupRole models.UserRole
	logger     *logger.Logger
}

func NewAuthService(users UserService, sessions SessionStore, ttl time.Duration, signupRole models.UserRole, log *logger.Logger) AuthService {
	if !signupRole.IsValid() {
		signupRole = models.Users
	}
	return &authService{
		users:      users,
		sessions:   sessions,
		ttl:        ttl,
		signupRole: signupRole,
		logger:     log,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	user := &models.User{Email: email, Role: s.signupRole}
	if err := s.users.CreateUser(ctx, user, password); err != nil {
		return nil, err
	}
	s.logger.Info("user_signed_up", "Account created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return s.issue(ctx, user)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.VerifyPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, models.ErrAuthentication) {
			s.logger.Warn("sign_in_failed", "Invalid credentials", map[string]interface{}{"email": normalizeEmail(email)})
		}
		return nil, err
	}
	return s.issue(ctx, user)
}

// issue creates a session for user when the role allows dashboard access.
func (s *authService) issue(ctx context.Context, user *models.User) (*Session, error) {
	if err := s.users.ValidateUserRole(user, models.SuperAdmin); err != nil {
		s.logger.Warn("access_denied", "Account lacks dashboard access", map[string]interface{}{
			"user_id": user.ID,
			"role":    user.Role,
		})
		return nil, err
	}

	now := time.Now().UTC()
	token := uuid.NewString()
	data := &redis.SessionData{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: now,
	}
	if err := s.sessions.SetSession(ctx, token, data, s.ttl); err != nil {
		return nil, &models.PersistenceError{Op: "store session", Err: err}
	}

	return &Session{Token: token, User: *user, ExpiresAt: now.Add(s.ttl)}, nil
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return &models.PersistenceError{Op: "delete session", Err: err}
	}
	return nil
}

// Authorize resolves a session token. A session whose role is not super_admin
// is deleted, forcing the holder to sign in again.
func (s *authService) Authorize(ctx context.Context, token string) (*redis.SessionData, error) {
	if token == "" {
		return nil, models.ErrAuthentication
	}
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return nil, models.ErrAuthentication
		}
		return nil, &models.PersistenceError{Op: "load session", Err: err}
	}
	if models.UserRole(session.Role) != models.SuperAdmin {
		if err := s.sessions.DeleteSession(ctx, token); err != nil {
			s.logger.Error("session_delete_failed", "Failed to revoke session", err, nil)
		}
		return nil, fmt.Errorf("role %q: %w", session.Role, models.ErrAuthorization)
	}
	return session, nil
}
