package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/models"
	"gorm.io/gorm"
)

var watchlistSort = sortSpec{
	columns:  map[string]string{"added_at": "added_at"},
	fallback: "added_at DESC",
}

const watchlistContentClause = "id IN (SELECT content_id FROM watchlists WHERE user_id = ?)"

// WatchlistRepository handles database operations for watchlist entries
type WatchlistRepository struct {
	db *DB
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db *DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add inserts a watchlist entry
// Returns ErrDuplicate if the entry exists and ErrForeignKey if the user or content is missing
func (r *WatchlistRepository) Add(ctx context.Context, entry *models.WatchlistEntry) error {
	result := r.db.WithContext(ctx).Omit("Content").Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to add watchlist entry: %w", MapGormError(result.Error))
	}
	return nil
}

// Remove deletes a watchlist entry
func (r *WatchlistRepository) Remove(ctx context.Context, userID, contentID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID.String(), contentID.String()).
		Delete(&models.WatchlistEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear deletes every entry of a user and returns how many were removed
func (r *WatchlistRepository) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID.String()).Delete(&models.WatchlistEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear watchlist: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}

// Exists reports whether content is on a user's watchlist
func (r *WatchlistRepository) Exists(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.WatchlistEntry{}).
		Where("user_id = ? AND content_id = ?", userID.String(), contentID.String()).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check watchlist entry: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// CountByUser returns the number of entries on a user's watchlist
func (r *WatchlistRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, "user_id = ?", userID)
}

// CountByContent returns the number of watchlists containing a content item
func (r *WatchlistRepository) CountByContent(ctx context.Context, contentID uuid.UUID) (int64, error) {
	return r.count(ctx, "content_id = ?", contentID)
}

// ListByUser retrieves a user's entries with their content, most recently added first
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID uuid.UUID, p Pagination) (*Page[*models.WatchlistEntry], error) {
	query := r.db.WithContext(ctx).Model(&models.WatchlistEntry{}).Where("user_id = ?", userID.String())
	page, err := findPage[*models.WatchlistEntry](query, p, watchlistSort, "Content", "Content.ContentType")
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return page, nil
}

// ContentByUser retrieves the content on a user's watchlist
func (r *WatchlistRepository) ContentByUser(ctx context.Context, userID uuid.UUID, p Pagination) (*Page[*models.Content], error) {
	query := r.db.WithContext(ctx).Model(&models.Content{}).Where(watchlistContentClause, userID.String())
	return r.contentPage("list watchlist content", query, p)
}

// ContentByUserAndGenre retrieves watchlist content tagged with the genre of exactly this name
func (r *WatchlistRepository) ContentByUserAndGenre(ctx context.Context, userID uuid.UUID, genreName string, p Pagination) (*Page[*models.Content], error) {
	query := r.db.WithContext(ctx).Model(&models.Content{}).
		Where(watchlistContentClause, userID.String()).
		Where("id IN (SELECT cg.content_id FROM content_genres cg JOIN genres g ON g.id = cg.genre_id WHERE g.name = ?)", genreName)
	return r.contentPage("list watchlist content by genre", query, p)
}

// ContentByUserAndType retrieves watchlist content whose type has exactly this name
func (r *WatchlistRepository) ContentByUserAndType(ctx context.Context, userID uuid.UUID, typeName string, p Pagination) (*Page[*models.Content], error) {
	query := r.db.WithContext(ctx).Model(&models.Content{}).
		Where(watchlistContentClause, userID.String()).
		Where("content_type_id IN (SELECT id FROM content_types WHERE name = ?)", typeName)
	return r.contentPage("list watchlist content by type", query, p)
}

// UsersByContent retrieves the users whose watchlist contains a content item
func (r *WatchlistRepository) UsersByContent(ctx context.Context, contentID uuid.UUID, p Pagination) (*Page[*models.User], error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN (SELECT user_id FROM watchlists WHERE content_id = ?)", contentID.String())
	page, err := findPage[*models.User](query, p, userSort, "Role")
	if err != nil {
		return nil, fmt.Errorf("failed to list users by watchlist content: %w", err)
	}
	return page, nil
}

// Transfer copies every entry of from onto to in one transaction, skipping content
// that to already has, and returns the number of entries copied
func (r *WatchlistRepository) Transfer(ctx context.Context, from, to uuid.UUID) (int, error) {
	copied := 0
	err := r.db.WithTransaction(ctx, "transfer watchlist", func(tx *gorm.DB) error {
		var source []*models.WatchlistEntry
		if err := tx.Where("user_id = ?", from.String()).Order("added_at ASC").Find(&source).Error; err != nil {
			return fmt.Errorf("failed to load source watchlist: %w", MapGormError(err))
		}

		now := time.Now().UTC()
		for _, entry := range source {
			var count int64
			err := tx.Model(&models.WatchlistEntry{}).
				Where("user_id = ? AND content_id = ?", to.String(), entry.ContentID.String()).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("failed to check target watchlist: %w", MapGormError(err))
			}
			if count > 0 {
				continue
			}

			copyEntry := &models.WatchlistEntry{UserID: to, ContentID: entry.ContentID, AddedAt: now}
			if err := tx.Omit("Content").Create(copyEntry).Error; err != nil {
				return fmt.Errorf("failed to copy watchlist entry %s: %w", entry.ContentID, MapGormError(err))
			}
			copied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}

func (r *WatchlistRepository) count(ctx context.Context, clause string, id uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.WatchlistEntry{}).Where(clause, id.String()).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count watchlist entries: %w", MapGormError(result.Error))
	}
	return count, nil
}

func (r *WatchlistRepository) contentPage(op string, query *gorm.DB, p Pagination) (*Page[*models.Content], error) {
	page, err := findPage[*models.Content](query, p, contentSort, "ContentType")
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return page, nil
}
