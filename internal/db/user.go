package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

var userSort = sortSpec{
	columns: map[string]string{
		"full_name":  "full_name",
		"email":      "email",
		"country":    "country",
		"created_at": "created_at",
	},
	fallback: "full_name ASC",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Omit("Role").Create(user)
	if result.Error != nil {
		return fmt.Errorf("failed to create user: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a user and their role by UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Preload("Role").Where("id = ?", id.String()).First(&user)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &user, nil
}

// GetByEmail retrieves a user and their role by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &user, nil
}

// ExistsByID reports whether a user with the given UUID exists
func (r *UserRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id.String()).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check user existence: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// ExistsByEmail reports whether an email address is already registered
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check email existence: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// GetRoleName returns the name of the role held by a user
func (r *UserRepository) GetRoleName(ctx context.Context, userID uuid.UUID) (models.RoleName, error) {
	var name string
	result := r.db.WithContext(ctx).
		Table("users").
		Select("roles.name").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("users.id = ?", userID.String()).
		Limit(1).
		Scan(&name)
	if result.Error != nil {
		return "", fmt.Errorf("failed to get user role: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return "", ErrNotFound
	}
	role, err := models.ParseRoleName(name)
	if err != nil {
		return "", fmt.Errorf("failed to parse user role: %w", err)
	}
	return role, nil
}

// List retrieves users with pagination
func (r *UserRepository) List(ctx context.Context, p Pagination) (*Page[*models.User], error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	page, err := findPage[*models.User](query, p, userSort, "Role")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

// SearchByName retrieves users whose full name contains name, ignoring case
func (r *UserRepository) SearchByName(ctx context.Context, name string, p Pagination) (*Page[*models.User], error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where(likeClause("full_name"), likePattern(name))
	page, err := findPage[*models.User](query, p, userSort, "Role")
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return page, nil
}

// ListByCountry retrieves users from a country
func (r *UserRepository) ListByCountry(ctx context.Context, country string, p Pagination) (*Page[*models.User], error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("country = ?", country)
	page, err := findPage[*models.User](query, p, userSort, "Role")
	if err != nil {
		return nil, fmt.Errorf("failed to list users by country: %w", err)
	}
	return page, nil
}

// ListByRoleName retrieves users holding the named role
func (r *UserRepository) ListByRoleName(ctx context.Context, role models.RoleName, p Pagination) (*Page[*models.User], error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role_id IN (SELECT id FROM roles WHERE name = ?)", string(role))
	page, err := findPage[*models.User](query, p, userSort, "Role")
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return page, nil
}

// ListByRoleID retrieves users holding the role with the given UUID
func (r *UserRepository) ListByRoleID(ctx context.Context, roleID uuid.UUID, p Pagination) (*Page[*models.User], error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("role_id = ?", roleID.String())
	page, err := findPage[*models.User](query, p, userSort, "Role")
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return page, nil
}

// CountByRoleID returns the number of users holding a role
func (r *UserRepository) CountByRoleID(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("role_id = ?", roleID.String()).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", MapGormError(result.Error))
	}
	return count, nil
}

// Update updates the profile fields of an existing user
// Note: Uses map-based updates to support setting fields to zero values
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	updates := map[string]interface{}{
		"full_name":  user.FullName,
		"email":      user.Email,
		"country":    user.Country,
		"updated_at": user.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.updateColumn(ctx, id, "hashed_password", hashedPassword)
}

// UpdateRole assigns a role to a user
func (r *UserRepository) UpdateRole(ctx context.Context, id, roleID uuid.UUID) error {
	return r.updateColumn(ctx, id, "role_id", roleID.String())
}

func (r *UserRepository) updateColumn(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id.String()).
		Updates(map[string]interface{}{column: value, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return fmt.Errorf("failed to update user %s: %w", column, MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a user by UUID; watchlist entries cascade
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
