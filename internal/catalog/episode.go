package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/logger"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// EpisodeInput carries the writable fields of an episode
type EpisodeInput struct {
	ContentID     uuid.UUID
	SeasonNumber  int
	EpisodeNumber int
	Title         string
	Description   *string
	Duration      *string
	ReleaseDate   *time.Time
	ThumbnailURL  *string
	VideoURL      *string
}

func (in EpisodeInput) applyTo(ep *models.Episode) {
	ep.ContentID = in.ContentID
	ep.SeasonNumber = in.SeasonNumber
	ep.EpisodeNumber = in.EpisodeNumber
	ep.Title = in.Title
	ep.Description = in.Description
	ep.Duration = in.Duration
	ep.ReleaseDate = normalizeDate(in.ReleaseDate)
	ep.ThumbnailURL = in.ThumbnailURL
	ep.VideoURL = in.VideoURL
}

// EpisodeService handles business logic for episodes
type EpisodeService struct {
	repos *db.Repositories
	authz *auth.Authorizer
}

// NewEpisodeService creates a new episode service instance
func NewEpisodeService(repos *db.Repositories, authz *auth.Authorizer) *EpisodeService {
	return &EpisodeService{repos: repos, authz: authz}
}

// Create adds an episode to existing content
func (s *EpisodeService) Create(ctx context.Context, caller auth.Caller, in EpisodeInput) (*models.Episode, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	ep := models.NewEpisode(in.ContentID, in.SeasonNumber, in.EpisodeNumber, in.Title)
	in.applyTo(ep)
	if err := models.Validate(ep); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkPlacement(ctx, ep); err != nil {
		return nil, err
	}

	if err := s.repos.Episodes.Create(ctx, ep); err != nil {
		return nil, s.writeError(err, ep, "Failed to create episode")
	}

	logger.Log.Info().
		Str("episode_id", ep.ID.String()).
		Str("content_id", ep.ContentID.String()).
		Int("season", ep.SeasonNumber).
		Int("episode", ep.EpisodeNumber).
		Msg("Episode created")
	return ep, nil
}

// Get retrieves an episode by UUID
func (s *EpisodeService) Get(ctx context.Context, id uuid.UUID) (*models.Episode, error) {
	ep, err := s.repos.Episodes.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceEpisode, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("episode_id", id.String()).
			Msg("Failed to get episode")
		return nil, apperr.Unexpected(err)
	}
	return ep, nil
}

// Update replaces the writable fields of an episode
func (s *EpisodeService) Update(ctx context.Context, caller auth.Caller, id uuid.UUID, in EpisodeInput) (*models.Episode, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	ep, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(ep)
	if err := models.Validate(ep); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkPlacement(ctx, ep); err != nil {
		return nil, err
	}

	if err := s.repos.Episodes.Update(ctx, ep); err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceEpisode, "id", id)
		}
		return nil, s.writeError(err, ep, "Failed to update episode")
	}
	return s.Get(ctx, id)
}

// Delete removes an episode
func (s *EpisodeService) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repos.Episodes.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return apperr.NotFound(resourceEpisode, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("episode_id", id.String()).
			Msg("Failed to delete episode")
		return apperr.Unexpected(err)
	}
	return nil
}

// ContentFor returns the content item an episode belongs to
func (s *EpisodeService) ContentFor(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	ep, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.repos.Content.GetByID(ctx, ep.ContentID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceContent, "id", ep.ContentID)
		}
		return nil, apperr.Unexpected(err)
	}
	return content, nil
}

// List retrieves all episodes
func (s *EpisodeService) List(ctx context.Context, p db.Pagination) (*db.Page[*models.Episode], error) {
	return listed(s.repos.Episodes.List(ctx, p))
}

// ListByContent retrieves the episodes of a content item in season and episode order
func (s *EpisodeService) ListByContent(ctx context.Context, contentID uuid.UUID, p db.Pagination) (*db.Page[*models.Episode], error) {
	return listed(s.repos.Episodes.ListByContent(ctx, contentID, p))
}

// ListBySeason retrieves the episodes of one season in episode order
func (s *EpisodeService) ListBySeason(ctx context.Context, contentID uuid.UUID, season int, p db.Pagination) (*db.Page[*models.Episode], error) {
	return listed(s.repos.Episodes.ListBySeason(ctx, contentID, season, p))
}

// GetByNumber retrieves a single episode by its position
func (s *EpisodeService) GetByNumber(ctx context.Context, contentID uuid.UUID, season, episode int) (*models.Episode, error) {
	ep, err := s.repos.Episodes.GetByNumber(ctx, contentID, season, episode)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.New(apperr.KindNotFound,
				"Episode not found with content id '%s', season %d, episode %d", contentID, season, episode)
		}
		return nil, apperr.Unexpected(err)
	}
	return ep, nil
}

// Seasons returns the distinct season numbers of a content item in ascending order
func (s *EpisodeService) Seasons(ctx context.Context, contentID uuid.UUID) ([]int, error) {
	seasons, err := s.repos.Episodes.Seasons(ctx, contentID)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return seasons, nil
}

// CountByContent counts the episodes of a content item
func (s *EpisodeService) CountByContent(ctx context.Context, contentID uuid.UUID) (int64, error) {
	count, err := s.repos.Episodes.CountByContent(ctx, contentID)
	if err != nil {
		return 0, apperr.Unexpected(err)
	}
	return count, nil
}

// CountBySeason counts the episodes of one season
func (s *EpisodeService) CountBySeason(ctx context.Context, contentID uuid.UUID, season int) (int64, error) {
	count, err := s.repos.Episodes.CountBySeason(ctx, contentID, season)
	if err != nil {
		return 0, apperr.Unexpected(err)
	}
	return count, nil
}

// Next returns the episode after the one at the given position
func (s *EpisodeService) Next(ctx context.Context, contentID uuid.UUID, season, episode int) (*models.Episode, error) {
	current, err := s.GetByNumber(ctx, contentID, season, episode)
	if err != nil {
		return nil, err
	}
	next, err := s.repos.Episodes.Next(ctx, current)
	return neighbour(next, err, msgNoNextEpisode)
}

// Previous returns the episode before the one at the given position
func (s *EpisodeService) Previous(ctx context.Context, contentID uuid.UUID, season, episode int) (*models.Episode, error) {
	current, err := s.GetByNumber(ctx, contentID, season, episode)
	if err != nil {
		return nil, err
	}
	prev, err := s.repos.Episodes.Previous(ctx, current)
	return neighbour(prev, err, msgNoPreviousEpisode)
}

func neighbour(ep *models.Episode, err error, absent string) (*models.Episode, error) {
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.New(apperr.KindNotFound, "%s", absent)
		}
		return nil, apperr.Unexpected(err)
	}
	return ep, nil
}

// checkPlacement requires the content to exist and the (season, episode) slot to be free
func (s *EpisodeService) checkPlacement(ctx context.Context, ep *models.Episode) error {
	if err := requireContent(ctx, s.repos, ep.ContentID); err != nil {
		return err
	}
	taken, err := s.repos.Episodes.ExistsByNumber(ctx, ep.ContentID, ep.SeasonNumber, ep.EpisodeNumber, ep.ID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_id", ep.ContentID.String()).
			Msg("Failed to check episode placement")
		return apperr.Unexpected(err)
	}
	if taken {
		logger.Log.Warn().
			Str("content_id", ep.ContentID.String()).
			Int("season", ep.SeasonNumber).
			Int("episode", ep.EpisodeNumber).
			Msg("Episode rejected: slot already taken")
		return apperr.New(apperr.KindConflict, msgEpisodeExists)
	}
	return nil
}

func (s *EpisodeService) writeError(err error, ep *models.Episode, msg string) error {
	switch {
	case db.IsDuplicate(err):
		return apperr.New(apperr.KindConflict, msgEpisodeExists)
	case db.IsForeignKey(err):
		return apperr.NotFound(resourceContent, "id", ep.ContentID)
	}
	logger.Log.Error().
		Err(err).
		Str("episode_id", ep.ID.String()).
		Str("content_id", ep.ContentID.String()).
		Msg(msg)
	return apperr.Unexpected(err)
}
