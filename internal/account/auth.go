package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/logger"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// Session is the result of a successful register or login
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// TokenIssuer signs tokens for a user
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
	TTL() time.Duration
}

// AuthService handles registration and login
type AuthService struct {
	repos  *db.Repositories
	hasher auth.PasswordHasher
	tokens TokenIssuer
}

// NewAuthService creates a new auth service instance
func NewAuthService(repos *db.Repositories, hasher auth.PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{repos: repos, hasher: hasher, tokens: tokens}
}

// Register creates a USER account and signs a token for it
func (s *AuthService) Register(ctx context.Context, reg Registration) (*Session, error) {
	reg.Email = normalizeEmail(reg.Email)
	if err := models.Validate(reg); err != nil {
		return nil, invalid(err)
	}

	user, err := createUser(ctx, s.repos, s.hasher, reg)
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("user_id", user.ID.String()).
		Msg("User registered")
	return s.session(user)
}

// Login verifies credentials and signs a token
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repos.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if db.IsNotFound(err) {
			logger.Log.Warn().Msg("Login rejected: unknown email")
			return nil, apperr.New(apperr.KindInvalidCredentials, msgInvalidCredentials)
		}
		logger.Log.Error().Err(err).Msg("Failed to load user for login")
		return nil, apperr.Unexpected(err)
	}
	if !s.hasher.Verify(user.HashedPassword, password) {
		logger.Log.Warn().
			Str("user_id", user.ID.String()).
			Msg("Login rejected: wrong password")
		return nil, apperr.New(apperr.KindInvalidCredentials, msgInvalidCredentials)
	}
	return s.session(user)
}

// EmailTaken reports whether an account already uses email
func (s *AuthService) EmailTaken(ctx context.Context, email string) (bool, error) {
	exists, err := s.repos.Users.ExistsByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, apperr.Unexpected(err)
	}
	return exists, nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", user.ID.String()).
			Msg("Failed to issue token")
		return nil, apperr.Unexpected(err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.tokens.TTL()),
		User:      user,
	}, nil
}

// createUser hashes the password and inserts a USER account, creating the role row if missing
func createUser(ctx context.Context, repos *db.Repositories, hasher auth.PasswordHasher, reg Registration) (*models.User, error) {
	exists, err := repos.Users.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to check email")
		return nil, apperr.Unexpected(err)
	}
	if exists {
		logger.Log.Warn().Msg("Account rejected: email already registered")
		return nil, apperr.Conflict(resourceUser, "email", reg.Email)
	}

	role, err := repos.Roles.GetOrCreateByName(ctx, models.RoleUser)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to resolve USER role")
		return nil, apperr.Unexpected(err)
	}

	hashed, err := hasher.Hash(reg.Password)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	user := models.NewUser(reg.FullName, reg.Email, hashed, reg.Country, role.ID)
	if err := repos.Users.Create(ctx, user); err != nil {
		if db.IsDuplicate(err) {
			return nil, apperr.Conflict(resourceUser, "email", reg.Email)
		}
		logger.Log.Error().Err(err).Msg("Failed to create user")
		return nil, apperr.Unexpected(err)
	}
	user.Role = role
	return user, nil
}
