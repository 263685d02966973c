package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// ContentTypeRepository handles database operations for content types
type ContentTypeRepository struct {
	db *DB
}

// NewContentTypeRepository creates a new content type repository
func NewContentTypeRepository(db *DB) *ContentTypeRepository {
	return &ContentTypeRepository{db: db}
}

// Create inserts a new content type into the database
func (r *ContentTypeRepository) Create(ctx context.Context, contentType *models.ContentType) error {
	result := r.db.WithContext(ctx).Create(contentType)
	if result.Error != nil {
		return fmt.Errorf("failed to create content type: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a content type by UUID
func (r *ContentTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContentType, error) {
	var contentType models.ContentType
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&contentType)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &contentType, nil
}

// GetByName retrieves a content type by its exact name
func (r *ContentTypeRepository) GetByName(ctx context.Context, name string) (*models.ContentType, error) {
	var contentType models.ContentType
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&contentType)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &contentType, nil
}

// ExistsByName reports whether a content type with the exact name exists
func (r *ContentTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ContentType{}).Where("name = ?", name).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check content type existence: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// List retrieves content types with pagination, ordered by name by default
func (r *ContentTypeRepository) List(ctx context.Context, p Pagination) (*Page[*models.ContentType], error) {
	query := r.db.WithContext(ctx).Model(&models.ContentType{})
	page, err := findPage[*models.ContentType](query, p, nameSort)
	if err != nil {
		return nil, fmt.Errorf("failed to list content types: %w", err)
	}
	return page, nil
}

// SearchByName retrieves content types whose name contains name, ignoring case
func (r *ContentTypeRepository) SearchByName(ctx context.Context, name string, p Pagination) (*Page[*models.ContentType], error) {
	query := r.db.WithContext(ctx).Model(&models.ContentType{}).Where(likeClause("name"), likePattern(name))
	page, err := findPage[*models.ContentType](query, p, nameSort)
	if err != nil {
		return nil, fmt.Errorf("failed to search content types: %w", err)
	}
	return page, nil
}

// Update renames an existing content type
func (r *ContentTypeRepository) Update(ctx context.Context, contentType *models.ContentType) error {
	contentType.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.ContentType{}).
		Where("id = ?", contentType.ID.String()).
		Updates(map[string]interface{}{"name": contentType.Name, "updated_at": contentType.UpdatedAt})
	if result.Error != nil {
		return fmt.Errorf("failed to update content type: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a content type by UUID
func (r *ContentTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.ContentType{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete content type: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
