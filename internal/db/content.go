package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/models"
	"gorm.io/gorm"
)

var contentColumns = map[string]string{
	"title":        "title",
	"release_date": "release_date",
	"language":     "language",
	"created_at":   "created_at",
	"updated_at":   "updated_at",
}

var (
	contentSort = sortSpec{columns: contentColumns, fallback: "title ASC"}
	// NULL release dates sort last on both SQLite and PostgreSQL
	recentSort = sortSpec{columns: contentColumns, fallback: "release_date IS NULL ASC, release_date DESC"}
)

const (
	contentTypeNameClause = "content_type_id IN (SELECT id FROM content_types WHERE LOWER(name) = LOWER(?))"
	genreNameClause       = "id IN (SELECT cg.content_id FROM content_genres cg JOIN genres g ON g.id = cg.genre_id WHERE LOWER(g.name) = LOWER(?))"
)

// ContentFilter narrows a content listing; nil fields are not applied
type ContentFilter struct {
	TypeName  *string
	GenreName *string
}

// ContentRepository handles database operations for content
type ContentRepository struct {
	db *DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Create inserts a new content item into the database
func (r *ContentRepository) Create(ctx context.Context, content *models.Content) error {
	result := r.db.WithContext(ctx).Omit("ContentType").Create(content)
	if result.Error != nil {
		return fmt.Errorf("failed to create content: %w", MapGormError(result.Error))
	}
	return nil
}

// CreateWithGenres inserts a content item and its genre links in one transaction
func (r *ContentRepository) CreateWithGenres(ctx context.Context, content *models.Content, genreIDs []uuid.UUID) error {
	err := r.db.WithTransaction(ctx, "create content with genres", func(tx *gorm.DB) error {
		if err := tx.Omit("ContentType").Create(content).Error; err != nil {
			return fmt.Errorf("failed to create content: %w", MapGormError(err))
		}
		for _, genreID := range UniqueIDs(genreIDs) {
			link := models.NewContentGenre(content.ID, genreID)
			if err := tx.Create(link).Error; err != nil {
				return fmt.Errorf("failed to link genre %s: %w", genreID, MapGormError(err))
			}
		}
		return nil
	})
	return err
}

// GetByID retrieves a content item and its type by UUID
func (r *ContentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	var content models.Content
	result := r.db.WithContext(ctx).Preload("ContentType").Where("id = ?", id.String()).First(&content)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &content, nil
}

// Exists reports whether a content item with the given UUID exists
func (r *ContentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Content{}).Where("id = ?", id.String()).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check content existence: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// List retrieves all content with pagination
func (r *ContentRepository) List(ctx context.Context, p Pagination) (*Page[*models.Content], error) {
	return r.page("list content", r.query(ctx), p, contentSort)
}

// ListAvailable retrieves content flagged as available
func (r *ContentRepository) ListAvailable(ctx context.Context, p Pagination) (*Page[*models.Content], error) {
	return r.page("list available content", r.query(ctx).Where("is_available = ?", true), p, contentSort)
}

// ListByTypeName retrieves content whose type name matches, ignoring case
func (r *ContentRepository) ListByTypeName(ctx context.Context, typeName string, p Pagination) (*Page[*models.Content], error) {
	return r.page("list content by type", r.query(ctx).Where(contentTypeNameClause, typeName), p, contentSort)
}

// ListByTypeID retrieves content of a content type
func (r *ContentRepository) ListByTypeID(ctx context.Context, typeID uuid.UUID, p Pagination) (*Page[*models.Content], error) {
	return r.page("list content by type", r.query(ctx).Where("content_type_id = ?", typeID.String()), p, contentSort)
}

// ListByGenreName retrieves content linked to a genre whose name matches, ignoring case
func (r *ContentRepository) ListByGenreName(ctx context.Context, genreName string, p Pagination) (*Page[*models.Content], error) {
	return r.page("list content by genre", r.query(ctx).Where(genreNameClause, genreName), p, contentSort)
}

// SearchByTitle retrieves content whose title contains title, ignoring case
func (r *ContentRepository) SearchByTitle(ctx context.Context, title string, p Pagination) (*Page[*models.Content], error) {
	return r.page("search content", r.query(ctx).Where(likeClause("title"), likePattern(title)), p, contentSort)
}

// ListByLanguage retrieves content in a language
func (r *ContentRepository) ListByLanguage(ctx context.Context, language string, p Pagination) (*Page[*models.Content], error) {
	return r.page("list content by language", r.query(ctx).Where("language = ?", language), p, contentSort)
}

// ListByReleaseDateRange retrieves content released between start and end, inclusive
func (r *ContentRepository) ListByReleaseDateRange(ctx context.Context, start, end time.Time, p Pagination) (*Page[*models.Content], error) {
	query := r.query(ctx).Where("release_date >= ? AND release_date <= ?", start, end)
	return r.page("list content by release date", query, p, recentSort)
}

// ListRecent retrieves available content, newest release first
func (r *ContentRepository) ListRecent(ctx context.Context, p Pagination) (*Page[*models.Content], error) {
	return r.page("list recent content", r.query(ctx).Where("is_available = ?", true), p, recentSort)
}

// Filter retrieves content matching every set field of filter
func (r *ContentRepository) Filter(ctx context.Context, filter ContentFilter, p Pagination) (*Page[*models.Content], error) {
	query := r.query(ctx)
	if filter.TypeName != nil {
		query = query.Where(contentTypeNameClause, *filter.TypeName)
	}
	if filter.GenreName != nil {
		query = query.Where(genreNameClause, *filter.GenreName)
	}
	return r.page("filter content", query, p, contentSort)
}

// CountByTypeID returns the number of content items of a content type
func (r *ContentRepository) CountByTypeID(ctx context.Context, typeID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Content{}).Where("content_type_id = ?", typeID.String()).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count content by type: %w", MapGormError(result.Error))
	}
	return count, nil
}

// Update updates an existing content item
// Note: Uses map-based updates to support setting fields to zero values
func (r *ContentRepository) Update(ctx context.Context, content *models.Content) error {
	content.UpdatedAt = time.Now().UTC()
	updates := map[string]interface{}{
		"title":           content.Title,
		"description":     content.Description,
		"release_date":    content.ReleaseDate,
		"duration":        content.Duration,
		"language":        content.Language,
		"thumbnail_url":   content.ThumbnailURL,
		"video_url":       content.VideoURL,
		"is_available":    content.IsAvailable,
		"content_type_id": content.ContentTypeID.String(),
		"updated_at":      content.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Model(&models.Content{}).Where("id = ?", content.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update content: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleAvailability flips the availability flag of a content item
func (r *ContentRepository) ToggleAvailability(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Content{}).
		Where("id = ?", id.String()).
		Updates(map[string]interface{}{
			"is_available": gorm.Expr("NOT is_available"),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to toggle content availability: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a content item; episodes, genre links and watchlist entries cascade
func (r *ContentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Content{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete content: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContentRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Content{})
}

func (r *ContentRepository) page(op string, query *gorm.DB, p Pagination, sort sortSpec) (*Page[*models.Content], error) {
	page, err := findPage[*models.Content](query, p, sort, "ContentType")
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return page, nil
}

// likeEscaper escapes LIKE metacharacters so search input matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likeClause matches column case-insensitively against a pattern from likePattern
func likeClause(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '\\'"
}

// likePattern builds a case-folded literal substring pattern for LIKE
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// uuidStrings converts UUIDs to their text form for IN clauses
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// UniqueIDs drops repeated UUIDs, keeping first-seen order
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
