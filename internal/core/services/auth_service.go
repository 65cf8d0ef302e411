package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/adapters/persistence/repositories"
	"mikopo-backend/internal/config"
	"mikopo-backend/internal/core/domain"
	"mikopo-backend/internal/pkg/jwt"
	"mikopo-backend/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth service errors
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session has expired")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration, login and session management
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	txManager   repositories.TransactionManager
	jwtConfig   config.JWTConfig
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	txManager repositories.TransactionManager,
	jwtConfig config.JWTConfig,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		txManager:   txManager,
		jwtConfig:   jwtConfig,
	}
}

// RegisterInput represents registration request
type RegisterInput struct {
	FirstName   string `json:"first_name" validate:"required,min=2"`
	LastName    string `json:"last_name" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=10"`
	AccountType string `json:"account_type" validate:"required,oneof=Individual SME Group"`
	Password    string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login request
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult carries everything the HTTP layer needs after a successful
// register/login: the user, a short-lived access token and the opaque
// session token destined for the cookie.
type AuthResult struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	SessionToken string               `json:"-"`
	ExpiresAt    time.Time            `json:"expires_at"`
}

// Register creates a user account plus its client profile, then opens a
// session. Emails are stored lowercase so logins are case-insensitive.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	input.Email = email

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.FirstName + " " + input.LastName)
	user := &models.User{
		Email:    email,
		Password: hashed,
		Role:     string(domain.RoleClient),
		Name:     name,
	}

	// The client profile is what makes loans disbursable for this email,
	// so the account and profile land together or not at all.
	err = s.txManager.Do(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		client := &models.Client{
			Name:           name,
			Email:          email,
			Phone:          input.Phone,
			Type:           input.AccountType,
			RegisteredDate: time.Now(),
			Status:         domain.ClientStatusActive,
		}
		return tx.Clients.Create(ctx, client)
	})
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Login authenticates a user and opens a new session
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Logout revokes the session identified by the raw token. Unknown tokens
// are a no-op so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	return s.sessionRepo.DeleteByTokenHash(ctx, password.HashToken(sessionToken))
}

// Refresh exchanges a valid session token for a fresh access token and a
// rotated session token. Expired sessions are deleted on sight.
func (s *AuthService) Refresh(ctx context.Context, sessionToken string) (*AuthResult, error) {
	if sessionToken == "" {
		return nil, ErrSessionNotFound
	}

	sess, err := s.sessionRepo.GetByTokenHash(ctx, password.HashToken(sessionToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if sess.IsExpired() {
		_ = s.sessionRepo.Delete(ctx, sess.ID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Rotate: the old token stops working the moment the new one exists.
	if err := s.sessionRepo.Delete(ctx, sess.ID); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

// CleanupExpiredSessions removes sessions past their expiry. Runs from
// the daily scheduler.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	return s.sessionRepo.DeleteExpired(ctx)
}

// openSession issues an access token and persists a new session row
func (s *AuthService) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Email, user.Role, user.Name,
		s.jwtConfig.Secret, s.jwtConfig.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	sessionToken := uuid.New().String()
	expiresAt := jwt.GetExpiryTime(s.jwtConfig.SessionDays)

	session := &models.Session{
		UserID:    user.ID,
		TokenHash: password.HashToken(sessionToken),
		ExpiresAt: expiresAt,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		SessionToken: sessionToken,
		ExpiresAt:    expiresAt,
	}, nil
}
