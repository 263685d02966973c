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

// RoleService manages roles; every operation requires ADMIN
type RoleService struct {
	repos *db.Repositories
	authz *auth.Authorizer
}

// NewRoleService creates a new role service instance
func NewRoleService(repos *db.Repositories, authz *auth.Authorizer) *RoleService {
	return &RoleService{repos: repos, authz: authz}
}

// Create adds a role with an unused name
func (s *RoleService) Create(ctx context.Context, caller auth.Caller, name string) (*models.Role, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	roleName, err := parseRole(name)
	if err != nil {
		return nil, err
	}
	if err := s.requireUnusedName(ctx, roleName, uuid.Nil); err != nil {
		return nil, err
	}

	role := models.NewRole(roleName)
	if err := s.repos.Roles.Create(ctx, role); err != nil {
		if db.IsDuplicate(err) {
			return nil, apperr.Conflict(resourceRole, "name", roleName)
		}
		logger.Log.Error().
			Err(err).
			Str("name", roleName.String()).
			Msg("Failed to create role")
		return nil, apperr.Unexpected(err)
	}
	return role, nil
}

// Get retrieves a role by UUID
func (s *RoleService) Get(ctx context.Context, caller auth.Caller, id uuid.UUID) (*models.Role, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// GetByName retrieves a role by name
func (s *RoleService) GetByName(ctx context.Context, caller auth.Caller, name string) (*models.Role, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	roleName, err := parseRole(name)
	if err != nil {
		return nil, err
	}
	role, err := s.repos.Roles.GetByName(ctx, roleName)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceRole, "name", roleName)
		}
		return nil, apperr.Unexpected(err)
	}
	return role, nil
}

// List retrieves every role
func (s *RoleService) List(ctx context.Context, caller auth.Caller) ([]*models.Role, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	roles, err := s.repos.Roles.List(ctx)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return roles, nil
}

// Rename changes a role's name
func (s *RoleService) Rename(ctx context.Context, caller auth.Caller, id uuid.UUID, name string) (*models.Role, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	roleName, err := parseRole(name)
	if err != nil {
		return nil, err
	}
	role, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireUnusedName(ctx, roleName, id); err != nil {
		return nil, err
	}

	role.Name = roleName
	if err := s.repos.Roles.Update(ctx, role); err != nil {
		switch {
		case db.IsNotFound(err):
			return nil, apperr.NotFound(resourceRole, "id", id)
		case db.IsDuplicate(err):
			return nil, apperr.Conflict(resourceRole, "name", roleName)
		}
		return nil, apperr.Unexpected(err)
	}
	return role, nil
}

// Delete removes a role no user holds
func (s *RoleService) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	count, err := s.repos.Users.CountByRoleID(ctx, id)
	if err != nil {
		return apperr.Unexpected(err)
	}
	if count > 0 {
		logger.Log.Warn().
			Str("role_id", id.String()).
			Int64("user_count", count).
			Msg("Role delete rejected: role in use")
		return apperr.New(apperr.KindBusinessRuleViolation,
			"Cannot delete user role. %d users are assigned this role.", count)
	}

	if err := s.repos.Roles.Delete(ctx, id); err != nil {
		switch {
		case db.IsNotFound(err):
			return apperr.NotFound(resourceRole, "id", id)
		case db.IsForeignKey(err):
			return apperr.New(apperr.KindBusinessRuleViolation, "Cannot delete user role. Users are assigned this role.")
		}
		return apperr.Unexpected(err)
	}
	return nil
}

// Users lists the users holding a role
func (s *RoleService) Users(ctx context.Context, caller auth.Caller, id uuid.UUID, p db.Pagination) (*db.Page[*models.User], error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return listed(s.repos.Users.ListByRoleID(ctx, id, p))
}

// CountUsers counts the users holding a role
func (s *RoleService) CountUsers(ctx context.Context, caller auth.Caller, id uuid.UUID) (int64, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return 0, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return 0, err
	}
	count, err := s.repos.Users.CountByRoleID(ctx, id)
	if err != nil {
		return 0, apperr.Unexpected(err)
	}
	return count, nil
}

func (s *RoleService) load(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	role, err := s.repos.Roles.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceRole, "id", id)
		}
		return nil, apperr.Unexpected(err)
	}
	return role, nil
}

func (s *RoleService) requireUnusedName(ctx context.Context, name models.RoleName, self uuid.UUID) error {
	existing, err := s.repos.Roles.GetByName(ctx, name)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return apperr.Unexpected(err)
	}
	if existing.ID == self {
		return nil
	}
	return apperr.Conflict(resourceRole, "name", name)
}

func parseRole(name string) (models.RoleName, error) {
	roleName, err := models.ParseRoleName(name)
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, err, "%s", err.Error())
	}
	return roleName, nil
}
