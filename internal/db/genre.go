package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

var nameSort = sortSpec{
	columns: map[string]string{
		"name":       "name",
		"created_at": "created_at",
	},
	fallback: "name ASC",
}

// GenreRepository handles database operations for genres
type GenreRepository struct {
	db *DB
}

// NewGenreRepository creates a new genre repository
func NewGenreRepository(db *DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Create inserts a new genre into the database
func (r *GenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	result := r.db.WithContext(ctx).Create(genre)
	if result.Error != nil {
		return fmt.Errorf("failed to create genre: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a genre by UUID
func (r *GenreRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Genre, error) {
	var genre models.Genre
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&genre)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &genre, nil
}

// GetByName retrieves a genre by its exact name
func (r *GenreRepository) GetByName(ctx context.Context, name string) (*models.Genre, error) {
	var genre models.Genre
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&genre)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &genre, nil
}

// ExistsByName reports whether a genre with the exact name exists
func (r *GenreRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Genre{}).Where("name = ?", name).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check genre existence: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// CountExisting returns how many of the given UUIDs name an existing genre
func (r *GenreRepository) CountExisting(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Genre{}).Where("id IN ?", uuidStrings(ids)).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count genres: %w", MapGormError(result.Error))
	}
	return count, nil
}

// List retrieves genres with pagination, ordered by name by default
func (r *GenreRepository) List(ctx context.Context, p Pagination) (*Page[*models.Genre], error) {
	query := r.db.WithContext(ctx).Model(&models.Genre{})
	page, err := findPage[*models.Genre](query, p, nameSort)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return page, nil
}

// SearchByName retrieves genres whose name contains name, ignoring case
func (r *GenreRepository) SearchByName(ctx context.Context, name string, p Pagination) (*Page[*models.Genre], error) {
	query := r.db.WithContext(ctx).Model(&models.Genre{}).Where(likeClause("name"), likePattern(name))
	page, err := findPage[*models.Genre](query, p, nameSort)
	if err != nil {
		return nil, fmt.Errorf("failed to search genres: %w", err)
	}
	return page, nil
}

// Update renames an existing genre
func (r *GenreRepository) Update(ctx context.Context, genre *models.Genre) error {
	genre.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.Genre{}).
		Where("id = ?", genre.ID.String()).
		Updates(map[string]interface{}{"name": genre.Name, "updated_at": genre.UpdatedAt})
	if result.Error != nil {
		return fmt.Errorf("failed to update genre: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a genre by UUID
func (r *GenreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Genre{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete genre: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
