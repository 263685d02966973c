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

// ContentInput carries the writable fields of a content item
type ContentInput struct {
	Title         string
	Description   *string
	ReleaseDate   *time.Time
	Duration      *string
	Language      *string
	ThumbnailURL  *string
	VideoURL      *string
	IsAvailable   *bool
	ContentTypeID uuid.UUID
	GenreIDs      []uuid.UUID
}

func (in ContentInput) applyTo(content *models.Content) {
	content.Title = in.Title
	content.Description = in.Description
	content.ReleaseDate = normalizeDate(in.ReleaseDate)
	content.Duration = in.Duration
	content.Language = in.Language
	content.ThumbnailURL = in.ThumbnailURL
	content.VideoURL = in.VideoURL
	content.ContentTypeID = in.ContentTypeID
	if in.IsAvailable != nil {
		content.IsAvailable = *in.IsAvailable
	}
}

// ContentService handles business logic for the content catalog
type ContentService struct {
	repos *db.Repositories
	authz *auth.Authorizer
}

// NewContentService creates a new content service instance
func NewContentService(repos *db.Repositories, authz *auth.Authorizer) *ContentService {
	return &ContentService{repos: repos, authz: authz}
}

// Create adds a content item and links its genres in one transaction
func (s *ContentService) Create(ctx context.Context, caller auth.Caller, in ContentInput) (*models.Content, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if err := s.requireContentType(ctx, in.ContentTypeID); err != nil {
		return nil, err
	}
	genreIDs := db.UniqueIDs(in.GenreIDs)
	if err := requireGenres(ctx, s.repos, genreIDs); err != nil {
		return nil, err
	}

	content := models.NewContent(in.Title, in.ContentTypeID)
	in.applyTo(content)
	if err := models.Validate(content); err != nil {
		return nil, invalid(err)
	}

	if err := s.repos.Content.CreateWithGenres(ctx, content, genreIDs); err != nil {
		if db.IsForeignKey(err) {
			logger.Log.Warn().
				Str("content_type_id", in.ContentTypeID.String()).
				Msg("Create content failed: referenced row vanished")
			return nil, apperr.New(apperr.KindNotFound, "content type or genre no longer exists")
		}
		logger.Log.Error().
			Err(err).
			Str("title", in.Title).
			Msg("Failed to create content")
		return nil, apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("content_id", content.ID.String()).
		Str("title", content.Title).
		Int("genres", len(genreIDs)).
		Msg("Content created")

	return s.Get(ctx, content.ID)
}

// Get retrieves a content item by UUID
func (s *ContentService) Get(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	content, err := s.repos.Content.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceContent, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("content_id", id.String()).
			Msg("Failed to get content")
		return nil, apperr.Unexpected(err)
	}
	return content, nil
}

// Update replaces the writable fields of a content item; genre links are untouched
func (s *ContentService) Update(ctx context.Context, caller auth.Caller, id uuid.UUID, in ContentInput) (*models.Content, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	content, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireContentType(ctx, in.ContentTypeID); err != nil {
		return nil, err
	}

	in.applyTo(content)
	content.ContentType = nil
	if err := models.Validate(content); err != nil {
		return nil, invalid(err)
	}

	if err := s.repos.Content.Update(ctx, content); err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceContent, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("content_id", id.String()).
			Msg("Failed to update content")
		return nil, apperr.Unexpected(err)
	}

	return s.Get(ctx, id)
}

// Delete removes a content item; its episodes, genre links and watchlist entries go with it
func (s *ContentService) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repos.Content.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return apperr.NotFound(resourceContent, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("content_id", id.String()).
			Msg("Failed to delete content")
		return apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("content_id", id.String()).
		Msg("Content deleted")
	return nil
}

// ToggleAvailability flips the availability flag and returns the updated item
func (s *ContentService) ToggleAvailability(ctx context.Context, caller auth.Caller, id uuid.UUID) (*models.Content, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if err := s.repos.Content.ToggleAvailability(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceContent, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("content_id", id.String()).
			Msg("Failed to toggle content availability")
		return nil, apperr.Unexpected(err)
	}
	return s.Get(ctx, id)
}

// List retrieves all content
func (s *ContentService) List(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.Content.List(ctx, p))
}

// ListAvailable retrieves available content
func (s *ContentService) ListAvailable(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.Content.ListAvailable(ctx, p))
}

// SearchByTitle retrieves content whose title contains title, ignoring case
func (s *ContentService) SearchByTitle(ctx context.Context, title string, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.Content.SearchByTitle(ctx, title, p))
}

// ListByTypeName retrieves content of the named type, ignoring case
func (s *ContentService) ListByTypeName(ctx context.Context, typeName string, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.Content.ListByTypeName(ctx, typeName, p))
}

// ListByGenreName retrieves content tagged with the named genre, ignoring case
func (s *ContentService) ListByGenreName(ctx context.Context, genreName string, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.Content.ListByGenreName(ctx, genreName, p))
}

// ListByLanguage retrieves content in a language
func (s *ContentService) ListByLanguage(ctx context.Context, language string, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.Content.ListByLanguage(ctx, language, p))
}

// ListByReleaseDateRange retrieves content released between start and end, inclusive
func (s *ContentService) ListByReleaseDateRange(ctx context.Context, start, end time.Time, p db.Pagination) (*db.Page[*models.Content], error) {
	start, end = *normalizeDate(&start), *normalizeDate(&end)
	if start.After(end) {
		return nil, apperr.New(apperr.KindValidation, msgInvalidDateRange)
	}
	return listed(s.repos.Content.ListByReleaseDateRange(ctx, start, end, p))
}

// ListRecent retrieves available content, newest release first
func (s *ContentService) ListRecent(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.Content.ListRecent(ctx, p))
}

// Popular returns recent available content
func (s *ContentService) Popular(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
	return s.ListRecent(ctx, p)
}

// Recommendations returns recent available content for any viewer
func (s *ContentService) Recommendations(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
	return s.ListRecent(ctx, p)
}

// Filter retrieves content matching the optional type and genre names
func (s *ContentService) Filter(ctx context.Context, typeName, genreName *string, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.Content.Filter(ctx, db.ContentFilter{TypeName: typeName, GenreName: genreName}, p))
}

func (s *ContentService) requireContentType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repos.ContentTypes.GetByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			logger.Log.Warn().
				Str("content_type_id", id.String()).
				Msg("Content rejected: content type not found")
			return apperr.NotFound(resourceContentType, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("content_type_id", id.String()).
			Msg("Failed to validate content type existence")
		return apperr.Unexpected(err)
	}
	return nil
}

// requireGenres fails with NotFound naming the first unknown genre id
func requireGenres(ctx context.Context, repos *db.Repositories, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := repos.Genres.CountExisting(ctx, ids)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to validate genre existence")
		return apperr.Unexpected(err)
	}
	if found == int64(len(ids)) {
		return nil
	}
	for _, id := range ids {
		if _, err := repos.Genres.GetByID(ctx, id); err != nil {
			if db.IsNotFound(err) {
				logger.Log.Warn().
					Str("genre_id", id.String()).
					Msg("Genre assignment rejected: genre not found")
				return apperr.NotFound(resourceGenre, "id", id)
			}
			return apperr.Unexpected(err)
		}
	}
	return apperr.New(apperr.KindNotFound, "one or more genres were not found")
}

// listed converts a repository listing failure into an Unexpected error
func listed[T any](page *db.Page[T], err error) (*db.Page[T], error) {
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list catalog records")
		return nil, apperr.Unexpected(err)
	}
	return page, nil
}

// normalizeDate truncates a release date to midnight UTC
func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
