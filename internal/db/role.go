package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// RoleRepository handles database operations for roles
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create inserts a new role into the database
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	result := r.db.WithContext(ctx).Create(role)
	if result.Error != nil {
		return fmt.Errorf("failed to create role: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a role by UUID
func (r *RoleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	var role models.Role
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&role)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &role, nil
}

// GetByName retrieves a role by its canonical name
func (r *RoleRepository) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	result := r.db.WithContext(ctx).Where("name = ?", string(name)).First(&role)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &role, nil
}

// GetOrCreateByName returns the named role, inserting it when missing
func (r *RoleRepository) GetOrCreateByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	role, err := r.GetByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !IsNotFound(err) {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	role = models.NewRole(name)
	if err := r.Create(ctx, role); err != nil {
		// Lost a race with a concurrent insert
		if IsDuplicate(err) {
			return r.GetByName(ctx, name)
		}
		return nil, err
	}
	return role, nil
}

// ExistsByName reports whether a role with the name exists
func (r *RoleRepository) ExistsByName(ctx context.Context, name models.RoleName) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Role{}).Where("name = ?", string(name)).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check role existence: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// List retrieves all roles ordered by name
func (r *RoleRepository) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	result := r.db.WithContext(ctx).Order("name ASC").Find(&roles)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list roles: %w", MapGormError(result.Error))
	}
	return roles, nil
}

// Update renames an existing role
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	role.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.Role{}).
		Where("id = ?", role.ID.String()).
		Updates(map[string]interface{}{"name": string(role.Name), "updated_at": role.UpdatedAt})
	if result.Error != nil {
		return fmt.Errorf("failed to update role: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a role by UUID
func (r *RoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Role{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete role: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
