package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

var episodeColumns = map[string]string{
	"season_number":  "season_number",
	"episode_number": "episode_number",
	"title":          "title",
	"release_date":   "release_date",
	"created_at":     "created_at",
}

var (
	episodeSort       = sortSpec{columns: episodeColumns, fallback: "content_id ASC, season_number ASC, episode_number ASC"}
	episodeOrderSort  = sortSpec{columns: episodeColumns, fallback: "season_number ASC, episode_number ASC"}
	episodeSeasonSort = sortSpec{columns: episodeColumns, fallback: "episode_number ASC"}
)

// EpisodeRepository handles database operations for episodes
type EpisodeRepository struct {
	db *DB
}

// NewEpisodeRepository creates a new episode repository
func NewEpisodeRepository(db *DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// Create inserts a new episode into the database
func (r *EpisodeRepository) Create(ctx context.Context, episode *models.Episode) error {
	result := r.db.WithContext(ctx).Create(episode)
	if result.Error != nil {
		return fmt.Errorf("failed to create episode: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves an episode by UUID
func (r *EpisodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Episode, error) {
	var episode models.Episode
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&episode)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &episode, nil
}

// GetByNumber retrieves the episode at (season, episode) of a content item
func (r *EpisodeRepository) GetByNumber(ctx context.Context, contentID uuid.UUID, season, episode int) (*models.Episode, error) {
	var ep models.Episode
	result := r.db.WithContext(ctx).
		Where("content_id = ? AND season_number = ? AND episode_number = ?", contentID.String(), season, episode).
		First(&ep)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &ep, nil
}

// ExistsByNumber reports whether another episode than excludeID occupies (season, episode)
// Pass uuid.Nil as excludeID to check all episodes
func (r *EpisodeRepository) ExistsByNumber(ctx context.Context, contentID uuid.UUID, season, episode int, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("content_id = ? AND season_number = ? AND episode_number = ?", contentID.String(), season, episode)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID.String())
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check episode number: %w", MapGormError(err))
	}
	return count > 0, nil
}

// List retrieves all episodes with pagination
func (r *EpisodeRepository) List(ctx context.Context, p Pagination) (*Page[*models.Episode], error) {
	query := r.db.WithContext(ctx).Model(&models.Episode{})
	page, err := findPage[*models.Episode](query, p, episodeSort)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return page, nil
}

// ListByContent retrieves the episodes of a content item ordered by season then episode
func (r *EpisodeRepository) ListByContent(ctx context.Context, contentID uuid.UUID, p Pagination) (*Page[*models.Episode], error) {
	query := r.db.WithContext(ctx).Model(&models.Episode{}).Where("content_id = ?", contentID.String())
	page, err := findPage[*models.Episode](query, p, episodeOrderSort)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes by content: %w", err)
	}
	return page, nil
}

// ListBySeason retrieves the episodes of one season ordered by episode number
func (r *EpisodeRepository) ListBySeason(ctx context.Context, contentID uuid.UUID, season int, p Pagination) (*Page[*models.Episode], error) {
	query := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("content_id = ? AND season_number = ?", contentID.String(), season)
	page, err := findPage[*models.Episode](query, p, episodeSeasonSort)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes by season: %w", err)
	}
	return page, nil
}

// Seasons returns the distinct season numbers of a content item in ascending order
func (r *EpisodeRepository) Seasons(ctx context.Context, contentID uuid.UUID) ([]int, error) {
	seasons := []int{}
	result := r.db.WithContext(ctx).Model(&models.Episode{}).
		Distinct("season_number").
		Where("content_id = ?", contentID.String()).
		Order("season_number ASC").
		Pluck("season_number", &seasons)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", MapGormError(result.Error))
	}
	return seasons, nil
}

// CountByContent returns the number of episodes of a content item
func (r *EpisodeRepository) CountByContent(ctx context.Context, contentID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Episode{}).Where("content_id = ?", contentID.String()).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count episodes: %w", MapGormError(result.Error))
	}
	return count, nil
}

// CountBySeason returns the number of episodes in one season of a content item
func (r *EpisodeRepository) CountBySeason(ctx context.Context, contentID uuid.UUID, season int) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("content_id = ? AND season_number = ?", contentID.String(), season).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count season episodes: %w", MapGormError(result.Error))
	}
	return count, nil
}

// Next returns the episode that follows current: a later episode of the same season,
// otherwise the first episode of the nearest later season
func (r *EpisodeRepository) Next(ctx context.Context, current *models.Episode) (*models.Episode, error) {
	var ep models.Episode
	result := r.db.WithContext(ctx).
		Where("content_id = ?", current.ContentID.String()).
		Where("((season_number = ? AND episode_number > ?) OR season_number > ?)",
			current.SeasonNumber, current.EpisodeNumber, current.SeasonNumber).
		Order("season_number ASC, episode_number ASC").
		First(&ep)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &ep, nil
}

// Previous returns the episode that precedes current: an earlier episode of the same
// season, otherwise the last episode of the nearest earlier season
func (r *EpisodeRepository) Previous(ctx context.Context, current *models.Episode) (*models.Episode, error) {
	var ep models.Episode
	result := r.db.WithContext(ctx).
		Where("content_id = ?", current.ContentID.String()).
		Where("((season_number = ? AND episode_number < ?) OR season_number < ?)",
			current.SeasonNumber, current.EpisodeNumber, current.SeasonNumber).
		Order("season_number DESC, episode_number DESC").
		First(&ep)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &ep, nil
}

// Update updates an existing episode
// Note: Uses map-based updates to support setting fields to zero values
func (r *EpisodeRepository) Update(ctx context.Context, episode *models.Episode) error {
	episode.UpdatedAt = time.Now().UTC()
	updates := map[string]interface{}{
		"content_id":     episode.ContentID.String(),
		"season_number":  episode.SeasonNumber,
		"episode_number": episode.EpisodeNumber,
		"title":          episode.Title,
		"description":    episode.Description,
		"duration":       episode.Duration,
		"release_date":   episode.ReleaseDate,
		"thumbnail_url":  episode.ThumbnailURL,
		"video_url":      episode.VideoURL,
		"updated_at":     episode.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Model(&models.Episode{}).Where("id = ?", episode.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update episode: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes an episode by UUID
func (r *EpisodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Episode{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete episode: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
