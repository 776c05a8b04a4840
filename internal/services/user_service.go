package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/yukikurage/project-tracker/internal/errors"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/password"
	"github.com/yukikurage/project-tracker/internal/repository"
	"github.com/yukikurage/project-tracker/internal/token"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	MaxPasswordLength = 72

	// passwordRule mirrors the Password tag of RegisterInput
	passwordRule = "required,min=8,max=72"
)

var (
	ErrEmailRequired      = fmt.Errorf("%w: a valid email is required", apierrors.ErrInvalidInput)
	ErrUsernameRequired   = fmt.Errorf("%w: username is required", apierrors.ErrInvalidInput)
	ErrUsernameHasAt      = fmt.Errorf("%w: username cannot contain @", apierrors.ErrInvalidInput)
	ErrPasswordTooShort   = fmt.Errorf("%w: password must be at least %d characters", apierrors.ErrInvalidInput, MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("%w: password must be at most %d characters", apierrors.ErrInvalidInput, MaxPasswordLength)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", apierrors.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", apierrors.ErrUnauthorized)
)

// UserService handles account related business logic.
type UserService struct {
	userRepo repository.UserRepository
	hasher   password.Hasher
	issuer   *token.Issuer
	log      *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher password.Hasher, issuer *token.Issuer, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		log:      log,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email     string  `validate:"required,email,max=120"`
	Username  string  `validate:"required,max=80,excludes=@"`
	Password  string  `validate:"required,min=8,max=72"`
	FirstName *string `validate:"omitnil,max=50"`
	LastName  *string `validate:"omitnil,max=50"`
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Register creates a new user. Uniqueness of email and username is enforced by
// the store and surfaces as apierrors.ErrConflict.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	input.FirstName = trimmedOrNil(input.FirstName)
	input.LastName = trimmedOrNil(input.LastName)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     input.Email,
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := user.SetPassword(s.hasher, input.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", apierrors.ErrInvalidInput, err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.Uint64("user_id", user.ID))
	return user, nil
}

// Authenticate verifies credentials by username or email. Usernames never
// contain @, so any login with one is looked up as an email.
func (s *UserService) Authenticate(ctx context.Context, login, plaintext string) (*models.User, error) {
	login = strings.TrimSpace(login)

	var (
		user *models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.userRepo.FindByEmail(ctx, strings.ToLower(login))
	} else {
		user, err = s.userRepo.FindByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.CheckPassword(s.hasher, plaintext) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a fresh access/refresh token pair.
func (s *UserService) Login(ctx context.Context, login, plaintext string) (*models.User, *TokenPair, error) {
	user, err := s.Authenticate(ctx, login, plaintext)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user logged in", zap.Uint64("user_id", user.ID))
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The user must still exist.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.issuer.Parse(refreshToken, token.KindRefresh)
	if err != nil {
		s.log.Debug("refresh token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}

	if _, err := s.userFromToken(ctx, userID); err != nil {
		return nil, err
	}
	return s.issuePair(userID)
}

// CurrentUser resolves the user behind an access token.
func (s *UserService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	userID, err := s.issuer.Parse(accessToken, token.KindAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.userFromToken(ctx, userID)
}

func (s *UserService) userFromToken(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *UserService) issuePair(userID uint64) (*TokenPair, error) {
	access, accessExp, err := s.issuer.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.issuer.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, current, next string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(s.hasher, current) {
		return ErrInvalidCredentials
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	if err := user.SetPassword(s.hasher, next); err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrInvalidInput, err)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.log.Info("password changed", zap.Uint64("user_id", userID))
	return nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.log.Info("user deleted", zap.Uint64("user_id", id))
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
