package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/logger"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// passwordChange is validated before a new hash is written
type passwordChange struct {
	NewPassword string `validate:"required,min=8,max=72"`
}

// UserService handles business logic for user accounts
type UserService struct {
	repos  *db.Repositories
	authz  *auth.Authorizer
	hasher auth.PasswordHasher
}

// NewUserService creates a new user service instance
func NewUserService(repos *db.Repositories, authz *auth.Authorizer, hasher auth.PasswordHasher) *UserService {
	return &UserService{repos: repos, authz: authz, hasher: hasher}
}

// Create adds a USER account on behalf of an admin
func (s *UserService) Create(ctx context.Context, caller auth.Caller, reg Registration) (*models.User, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
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
		Str("admin_id", caller.UserID.String()).
		Msg("User created by admin")
	return user, nil
}

// Get retrieves a user; callers may only read themselves unless ADMIN
func (s *UserService) Get(ctx context.Context, caller auth.Caller, id uuid.UUID) (*models.User, error) {
	if err := s.authz.RequireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// List retrieves all users
func (s *UserService) List(ctx context.Context, caller auth.Caller, p db.Pagination) (*db.Page[*models.User], error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return listed(s.repos.Users.List(ctx, p))
}

// Search retrieves users whose name contains name, ignoring case
func (s *UserService) Search(ctx context.Context, caller auth.Caller, name string, p db.Pagination) (*db.Page[*models.User], error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return listed(s.repos.Users.SearchByName(ctx, name, p))
}

// ListByCountry retrieves users from a country
func (s *UserService) ListByCountry(ctx context.Context, caller auth.Caller, country string, p db.Pagination) (*db.Page[*models.User], error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return listed(s.repos.Users.ListByCountry(ctx, country, p))
}

// ListByRole retrieves users holding the named role
func (s *UserService) ListByRole(ctx context.Context, caller auth.Caller, role string, p db.Pagination) (*db.Page[*models.User], error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	name, err := parseRole(role)
	if err != nil {
		return nil, err
	}
	return listed(s.repos.Users.ListByRoleName(ctx, name, p))
}

// Update replaces a user's profile fields
func (s *UserService) Update(ctx context.Context, caller auth.Caller, id uuid.UUID, profile Profile) (*models.User, error) {
	if err := s.authz.RequireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	profile.Email = normalizeEmail(profile.Email)
	if err := models.Validate(profile); err != nil {
		return nil, invalid(err)
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Email != user.Email {
		taken, err := s.repos.Users.ExistsByEmail(ctx, profile.Email)
		if err != nil {
			return nil, apperr.Unexpected(err)
		}
		if taken {
			logger.Log.Warn().
				Str("user_id", id.String()).
				Msg("Profile update rejected: email already registered")
			return nil, apperr.Conflict(resourceUser, "email", profile.Email)
		}
	}

	user.FullName = profile.FullName
	user.Email = profile.Email
	user.Country = profile.Country
	if err := s.repos.Users.Update(ctx, user); err != nil {
		switch {
		case db.IsNotFound(err):
			return nil, apperr.NotFound(resourceUser, "id", id)
		case db.IsDuplicate(err):
			return nil, apperr.Conflict(resourceUser, "email", profile.Email)
		}
		logger.Log.Error().
			Err(err).
			Str("user_id", id.String()).
			Msg("Failed to update user")
		return nil, apperr.Unexpected(err)
	}
	return s.load(ctx, id)
}

// Delete removes a user and their watchlist
func (s *UserService) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return apperr.NotFound(resourceUser, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("user_id", id.String()).
			Msg("Failed to delete user")
		return apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("user_id", id.String()).
		Msg("User deleted")
	return nil
}

// ChangePassword replaces a password after verifying the old one
func (s *UserService) ChangePassword(ctx context.Context, caller auth.Caller, id uuid.UUID, oldPassword, newPassword string) (*models.User, error) {
	if err := s.authz.RequireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(user.HashedPassword, oldPassword) {
		logger.Log.Warn().
			Str("user_id", id.String()).
			Msg("Password change rejected: old password mismatch")
		return nil, apperr.New(apperr.KindInvalidCredentials, msgInvalidOldPassword)
	}
	if err := models.Validate(passwordChange{NewPassword: newPassword}); err != nil {
		return nil, invalid(err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	if err := s.repos.Users.UpdatePassword(ctx, id, hashed); err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceUser, "id", id)
		}
		return nil, apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("user_id", id.String()).
		Msg("Password changed")
	return s.load(ctx, id)
}

// AssignRole gives a user a different role
func (s *UserService) AssignRole(ctx context.Context, caller auth.Caller, id, roleID uuid.UUID) (*models.User, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.repos.Roles.GetByID(ctx, roleID); err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceRole, "id", roleID)
		}
		return nil, apperr.Unexpected(err)
	}

	if err := s.repos.Users.UpdateRole(ctx, id, roleID); err != nil {
		switch {
		case db.IsNotFound(err):
			return nil, apperr.NotFound(resourceUser, "id", id)
		case db.IsForeignKey(err):
			return nil, apperr.NotFound(resourceRole, "id", roleID)
		}
		return nil, apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("user_id", id.String()).
		Str("role_id", roleID.String()).
		Msg("Role assigned")
	return s.load(ctx, id)
}

// Recommendations returns recent available content for a user
func (s *UserService) Recommendations(ctx context.Context, caller auth.Caller, id uuid.UUID, p db.Pagination) (*db.Page[*models.Content], error) {
	if err := s.authz.RequireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return listed(s.repos.Content.ListRecent(ctx, p))
}

func (s *UserService) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceUser, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("user_id", id.String()).
			Msg("Failed to get user")
		return nil, apperr.Unexpected(err)
	}
	return user, nil
}

func listed[T any](page *db.Page[T], err error) (*db.Page[T], error) {
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list account records")
		return nil, apperr.Unexpected(err)
	}
	return page, nil
}
