package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/session"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// Credential failures shown to the user.
var (
	ErrUsernameTaken      = apperrors.NewCustomError(apperrors.ErrDuplicateUsername, "Username already exists!")
	ErrInvalidCredentials = apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid username or password!")
	ErrPasswordTooLong    = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Password must be at most 72 bytes long.")
	ErrUnknownAccountType = apperrors.NewCustomError(apperrors.ErrValidationFailed, "Unknown account type.")
)

// AuthService owns registration, credential checks and sessions.
type AuthService struct {
	store    repositories.Store
	sessions *session.Manager
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(store repositories.Store, sessions *session.Manager, logger zerolog.Logger) *AuthService {
	return &AuthService{store: store, sessions: sessions, logger: logger}
}

// LoginResult is a successful login.
type LoginResult struct {
	Token   string
	Session *session.Session
	User    *models.User
}

// Register validates the signup form and creates the account. Checks run in
// order: username, account type, password policy, username availability.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	username, err := validation.NormalizeUsername(username)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(role) == "" {
		return nil, validation.ErrRoleRequired
	}
	roleType, err := models.ParseRoleType(role)
	if err != nil {
		return nil, ErrUnknownAccountType
	}

	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	existing, err := repos.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Username: username, Password: hash, RoleType: roleType}
	if err := repos.Users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same name.
		if errors.Is(err, apperrors.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(roleType)).Msg("User registered")
	return user, nil
}

// Authenticate returns the user whose password matches. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.Repos().Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Debug().Str("username", username).Msg("Login rejected")
		return nil, err
	}

	token, sess, err := s.sessions.Start(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return &LoginResult{Token: token, Session: sess, User: user}, nil
}

// Logout revokes the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.End(ctx, sessionID)
}

// Profile returns the stored account behind identity.
func (s *AuthService) Profile(ctx context.Context, identity models.Identity) (*models.User, error) {
	user, err := s.store.Repos().Users.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrUserNotFound, "User not found.")
	}
	return user, nil
}
