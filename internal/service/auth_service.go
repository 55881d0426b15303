package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/repository"
	"github.com/tonkonan/materrax/pkg/jwt"
	"github.com/tonkonan/materrax/pkg/password"
)

const (
	minPasswordLength = 6
	userListLimit     = 20
)

var (
	ErrRegistrationFieldsRequired = errors.New("email, password and role are required")
	ErrPasswordTooShort           = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong            = errors.New("password must be at most 72 bytes")
	ErrInvalidRole                = errors.New("role must be buyer or supplier")
	ErrEmailTaken                 = errors.New("user with this email already exists")
	ErrLoginFieldsRequired        = errors.New("email and password are required")
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrUserNotFound               = errors.New("user not found")
)

type UserStore interface {
	CreateUser(ctx context.Context, input *models.RegisterInput, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListRecentUsers(ctx context.Context, limit int) ([]models.UserSummary, error)
}

type SessionStore interface {
	StoreSession(ctx context.Context, session *models.Session) error
	ListSessions(ctx context.Context, userID int64) ([]models.Session, error)
}

type AuthService struct {
	userRepo     UserStore
	sessionRepo  SessionStore
	jwtManager   *jwt.Manager
	passwordHash *password.Hasher
	logger       *slog.Logger
}

// NewAuthService wires the auth flows. sessionRepo may be nil, in which case
// issued tokens are not recorded.
func NewAuthService(
	userRepo UserStore,
	sessionRepo SessionStore,
	jwtManager *jwt.Manager,
	passwordHash *password.Hasher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		jwtManager:   jwtManager,
		passwordHash: passwordHash,
		logger:       logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input *models.RegisterInput) (*models.AuthResponse, error) {
	s.logger.Debug("Attempting user registration", "email", input.Email)

	if input.Email == "" || input.Password == "" || input.Role == "" {
		return nil, ErrRegistrationFieldsRequired
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(input.Password) > password.MaxLength {
		return nil, ErrPasswordTooLong
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	passwordHash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", "email", input.Email, "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique index on email decides races between concurrent sign-ups
	user, err := s.userRepo.CreateUser(ctx, input, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.logger.Warn("User already exists", "email", input.Email)
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to create user", "email", input.Email, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return &models.AuthResponse{
		Message: "User registered successfully",
		User:    user,
		Token:   token,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, input *models.LoginInput) (*models.AuthResponse, error) {
	s.logger.Debug("Attempting login", "email", input.Email)

	if input.Email == "" || input.Password == "" {
		return nil, ErrLoginFieldsRequired
	}

	user, err := s.userRepo.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("User not found", "email", input.Email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", "email", input.Email, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.passwordHash.Check(input.Password, user.PasswordHash) {
		s.logger.Warn("Invalid password", "email", input.Email)
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return &models.AuthResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	}, nil
}

// GetUser loads the stored record for the token's identity.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("User not found", "user_id", id)
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user by ID", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.userRepo.ListRecentUsers(ctx, userListLimit)
	if err != nil {
		s.logger.Error("Failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// ListSessions returns the caller's live sessions, or an empty list when no
// session registry is configured.
func (s *AuthService) ListSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	if s.sessionRepo == nil {
		return []models.Session{}, nil
	}

	sessions, err := s.sessionRepo.ListSessions(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list sessions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *models.User) (string, error) {
	token, claims, err := s.jwtManager.GenerateToken(user.Identity())
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if s.sessionRepo != nil {
		session := &models.Session{
			ID:        claims.RegisteredClaims.ID,
			UserID:    user.ID,
			Email:     user.Email,
			Role:      user.Role,
			IssuedAt:  claims.IssuedAt.Time,
			ExpiresAt: claims.ExpiresAt.Time,
		}
		// Recording is best effort
		if err := s.sessionRepo.StoreSession(ctx, session); err != nil {
			s.logger.Error("Failed to store session", "user_id", user.ID, "error", err)
		}
	}

	return token, nil
}
