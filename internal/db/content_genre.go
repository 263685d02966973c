package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/models"
	"gorm.io/gorm"
)

// ContentGenreRepository handles database operations for content-genre links
type ContentGenreRepository struct {
	db *DB
}

// NewContentGenreRepository creates a new content-genre link repository
func NewContentGenreRepository(db *DB) *ContentGenreRepository {
	return &ContentGenreRepository{db: db}
}

// Link inserts a content-genre link
// Returns ErrDuplicate if the link exists and ErrForeignKey if either side is missing
func (r *ContentGenreRepository) Link(ctx context.Context, contentID, genreID uuid.UUID) error {
	result := r.db.WithContext(ctx).Create(models.NewContentGenre(contentID, genreID))
	if result.Error != nil {
		return fmt.Errorf("failed to link genre to content: %w", MapGormError(result.Error))
	}
	return nil
}

// Unlink removes a content-genre link
func (r *ContentGenreRepository) Unlink(ctx context.Context, contentID, genreID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("content_id = ? AND genre_id = ?", contentID.String(), genreID.String()).
		Delete(&models.ContentGenre{})
	if result.Error != nil {
		return fmt.Errorf("failed to unlink genre from content: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsLinked reports whether content is tagged with genre
func (r *ContentGenreRepository) IsLinked(ctx context.Context, contentID, genreID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ContentGenre{}).
		Where("content_id = ? AND genre_id = ?", contentID.String(), genreID.String()).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check content genre link: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// ReplaceForContent replaces every genre link of a content item in one transaction
func (r *ContentGenreRepository) ReplaceForContent(ctx context.Context, contentID uuid.UUID, genreIDs []uuid.UUID) error {
	return r.db.WithTransaction(ctx, "replace content genres", func(tx *gorm.DB) error {
		result := tx.Where("content_id = ?", contentID.String()).Delete(&models.ContentGenre{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear content genres: %w", MapGormError(result.Error))
		}
		for _, genreID := range UniqueIDs(genreIDs) {
			if err := tx.Create(models.NewContentGenre(contentID, genreID)).Error; err != nil {
				return fmt.Errorf("failed to link genre %s: %w", genreID, MapGormError(err))
			}
		}
		return nil
	})
}

// GenresForContent retrieves the genres of a content item, ordered by name by default
func (r *ContentGenreRepository) GenresForContent(ctx context.Context, contentID uuid.UUID, p Pagination) (*Page[*models.Genre], error) {
	query := r.db.WithContext(ctx).Model(&models.Genre{}).
		Where("id IN (SELECT genre_id FROM content_genres WHERE content_id = ?)", contentID.String())
	page, err := findPage[*models.Genre](query, p, nameSort)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres for content: %w", err)
	}
	return page, nil
}

// ContentForGenre retrieves the content tagged with a genre, ordered by title by default
func (r *ContentGenreRepository) ContentForGenre(ctx context.Context, genreID uuid.UUID, p Pagination) (*Page[*models.Content], error) {
	query := r.db.WithContext(ctx).Model(&models.Content{}).
		Where("id IN (SELECT content_id FROM content_genres WHERE genre_id = ?)", genreID.String())
	page, err := findPage[*models.Content](query, p, contentSort, "ContentType")
	if err != nil {
		return nil, fmt.Errorf("failed to list content for genre: %w", err)
	}
	return page, nil
}

// ContentByGenreName retrieves content tagged with the genre of exactly this name
func (r *ContentGenreRepository) ContentByGenreName(ctx context.Context, genreName string, p Pagination) (*Page[*models.Content], error) {
	query := r.db.WithContext(ctx).Model(&models.Content{}).
		Where("id IN (SELECT cg.content_id FROM content_genres cg JOIN genres g ON g.id = cg.genre_id WHERE g.name = ?)", genreName)
	page, err := findPage[*models.Content](query, p, contentSort, "ContentType")
	if err != nil {
		return nil, fmt.Errorf("failed to list content by genre name: %w", err)
	}
	return page, nil
}

// CountGenres returns the number of genres linked to a content item
func (r *ContentGenreRepository) CountGenres(ctx context.Context, contentID uuid.UUID) (int64, error) {
	return r.count(ctx, "content_id = ?", contentID)
}

// CountContent returns the number of content items linked to a genre
func (r *ContentGenreRepository) CountContent(ctx context.Context, genreID uuid.UUID) (int64, error) {
	return r.count(ctx, "genre_id = ?", genreID)
}

// UnlinkAllForContent removes every genre link of a content item
func (r *ContentGenreRepository) UnlinkAllForContent(ctx context.Context, contentID uuid.UUID) error {
	return r.deleteWhere(ctx, "content_id = ?", contentID)
}

// UnlinkAllForGenre removes every content link of a genre
func (r *ContentGenreRepository) UnlinkAllForGenre(ctx context.Context, genreID uuid.UUID) error {
	return r.deleteWhere(ctx, "genre_id = ?", genreID)
}

func (r *ContentGenreRepository) count(ctx context.Context, clause string, id uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ContentGenre{}).Where(clause, id.String()).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count content genre links: %w", MapGormError(result.Error))
	}
	return count, nil
}

func (r *ContentGenreRepository) deleteWhere(ctx context.Context, clause string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where(clause, id.String()).Delete(&models.ContentGenre{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete content genre links: %w", MapGormError(result.Error))
	}
	return nil
}
