package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/logger"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// ContentGenreService manages the genre links of content items
type ContentGenreService struct {
	repos *db.Repositories
	authz *auth.Authorizer
}

// NewContentGenreService creates a new content-genre service instance
func NewContentGenreService(repos *db.Repositories, authz *auth.Authorizer) *ContentGenreService {
	return &ContentGenreService{repos: repos, authz: authz}
}

// Link tags a content item with a genre
func (s *ContentGenreService) Link(ctx context.Context, caller auth.Caller, contentID, genreID uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.requireBoth(ctx, contentID, genreID); err != nil {
		return err
	}

	linked, err := s.repos.ContentGenres.IsLinked(ctx, contentID, genreID)
	if err != nil {
		return s.unexpected(err, contentID, genreID, "Failed to check genre link")
	}
	if linked {
		logger.Log.Warn().
			Str("content_id", contentID.String()).
			Str("genre_id", genreID.String()).
			Msg("Link rejected: genre already assigned")
		return apperr.New(apperr.KindConflict, msgGenreAlreadyLinked)
	}

	if err := s.repos.ContentGenres.Link(ctx, contentID, genreID); err != nil {
		switch {
		case db.IsDuplicate(err):
			return apperr.New(apperr.KindConflict, msgGenreAlreadyLinked)
		case db.IsForeignKey(err):
			return apperr.New(apperr.KindNotFound, "content or genre no longer exists")
		}
		return s.unexpected(err, contentID, genreID, "Failed to link genre")
	}

	logger.Log.Info().
		Str("content_id", contentID.String()).
		Str("genre_id", genreID.String()).
		Msg("Genre linked to content")
	return nil
}

// Unlink removes a genre from a content item
func (s *ContentGenreService) Unlink(ctx context.Context, caller auth.Caller, contentID, genreID uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repos.ContentGenres.Unlink(ctx, contentID, genreID); err != nil {
		if db.IsNotFound(err) {
			logger.Log.Warn().
				Str("content_id", contentID.String()).
				Str("genre_id", genreID.String()).
				Msg("Unlink rejected: genre not assigned")
			return apperr.New(apperr.KindConflict, msgGenreNotLinked)
		}
		return s.unexpected(err, contentID, genreID, "Failed to unlink genre")
	}

	logger.Log.Info().
		Str("content_id", contentID.String()).
		Str("genre_id", genreID.String()).
		Msg("Genre unlinked from content")
	return nil
}

// BulkReplace sets the genres of a content item to exactly genreIDs
// Every id is checked before anything is written and the swap is atomic
func (s *ContentGenreService) BulkReplace(ctx context.Context, caller auth.Caller, contentID uuid.UUID, genreIDs []uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if err := requireContent(ctx, s.repos, contentID); err != nil {
		return err
	}
	unique := db.UniqueIDs(genreIDs)
	if err := requireGenres(ctx, s.repos, unique); err != nil {
		return err
	}

	if err := s.repos.ContentGenres.ReplaceForContent(ctx, contentID, unique); err != nil {
		if db.IsForeignKey(err) {
			return apperr.New(apperr.KindNotFound, "content or genre no longer exists")
		}
		logger.Log.Error().
			Err(err).
			Str("content_id", contentID.String()).
			Int("genres", len(unique)).
			Msg("Failed to replace content genres")
		return apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("content_id", contentID.String()).
		Int("genres", len(unique)).
		Msg("Content genres replaced")
	return nil
}

// IsLinked reports whether a content item carries a genre
func (s *ContentGenreService) IsLinked(ctx context.Context, contentID, genreID uuid.UUID) (bool, error) {
	linked, err := s.repos.ContentGenres.IsLinked(ctx, contentID, genreID)
	if err != nil {
		return false, s.unexpected(err, contentID, genreID, "Failed to check genre link")
	}
	return linked, nil
}

// GenresForContent lists the genres of a content item
func (s *ContentGenreService) GenresForContent(ctx context.Context, contentID uuid.UUID, p db.Pagination) (*db.Page[*models.Genre], error) {
	return listed(s.repos.ContentGenres.GenresForContent(ctx, contentID, p))
}

// ContentForGenre lists the content tagged with a genre
func (s *ContentGenreService) ContentForGenre(ctx context.Context, genreID uuid.UUID, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.ContentGenres.ContentForGenre(ctx, genreID, p))
}

// ContentByGenreName lists the content tagged with the exactly named genre
func (s *ContentGenreService) ContentByGenreName(ctx context.Context, name string, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.ContentGenres.ContentByGenreName(ctx, name, p))
}

// CountGenres counts the genres of a content item
func (s *ContentGenreService) CountGenres(ctx context.Context, contentID uuid.UUID) (int64, error) {
	count, err := s.repos.ContentGenres.CountGenres(ctx, contentID)
	if err != nil {
		return 0, apperr.Unexpected(err)
	}
	return count, nil
}

// CountContent counts the content tagged with a genre
func (s *ContentGenreService) CountContent(ctx context.Context, genreID uuid.UUID) (int64, error) {
	count, err := s.repos.ContentGenres.CountContent(ctx, genreID)
	if err != nil {
		return 0, apperr.Unexpected(err)
	}
	return count, nil
}

// UnlinkAllForContent removes every genre from a content item
func (s *ContentGenreService) UnlinkAllForContent(ctx context.Context, caller auth.Caller, contentID uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repos.ContentGenres.UnlinkAllForContent(ctx, contentID); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

// UnlinkAllForGenre removes a genre from every content item
func (s *ContentGenreService) UnlinkAllForGenre(ctx context.Context, caller auth.Caller, genreID uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repos.ContentGenres.UnlinkAllForGenre(ctx, genreID); err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *ContentGenreService) requireBoth(ctx context.Context, contentID, genreID uuid.UUID) error {
	if err := requireContent(ctx, s.repos, contentID); err != nil {
		return err
	}
	if _, err := s.repos.Genres.GetByID(ctx, genreID); err != nil {
		if db.IsNotFound(err) {
			return apperr.NotFound(resourceGenre, "id", genreID)
		}
		return s.unexpected(err, contentID, genreID, "Failed to check genre existence")
	}
	return nil
}

func (s *ContentGenreService) unexpected(err error, contentID, genreID uuid.UUID, msg string) error {
	logger.Log.Error().
		Err(err).
		Str("content_id", contentID.String()).
		Str("genre_id", genreID.String()).
		Msg(msg)
	return apperr.Unexpected(err)
}
