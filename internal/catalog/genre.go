package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/logger"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// GenreService handles business logic for genres
type GenreService struct {
	repos *db.Repositories
	authz *auth.Authorizer
}

// NewGenreService creates a new genre service instance
func NewGenreService(repos *db.Repositories, authz *auth.Authorizer) *GenreService {
	return &GenreService{repos: repos, authz: authz}
}

// Create adds a genre with a unique name
func (s *GenreService) Create(ctx context.Context, caller auth.Caller, name string) (*models.Genre, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	genre := models.NewGenre(strings.TrimSpace(name))
	if err := models.Validate(genre); err != nil {
		return nil, invalid(err)
	}
	if err := s.requireUnusedName(ctx, genre.Name, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.repos.Genres.Create(ctx, genre); err != nil {
		if db.IsDuplicate(err) {
			return nil, apperr.Conflict(resourceGenre, "name", genre.Name)
		}
		logger.Log.Error().
			Err(err).
			Str("name", genre.Name).
			Msg("Failed to create genre")
		return nil, apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("genre_id", genre.ID.String()).
		Str("name", genre.Name).
		Msg("Genre created")
	return genre, nil
}

// Get retrieves a genre by UUID
func (s *GenreService) Get(ctx context.Context, id uuid.UUID) (*models.Genre, error) {
	genre, err := s.repos.Genres.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceGenre, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("genre_id", id.String()).
			Msg("Failed to get genre")
		return nil, apperr.Unexpected(err)
	}
	return genre, nil
}

// GetByName retrieves a genre by its exact name
func (s *GenreService) GetByName(ctx context.Context, name string) (*models.Genre, error) {
	genre, err := s.repos.Genres.GetByName(ctx, name)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceGenre, "name", name)
		}
		logger.Log.Error().
			Err(err).
			Str("name", name).
			Msg("Failed to get genre by name")
		return nil, apperr.Unexpected(err)
	}
	return genre, nil
}

// List retrieves all genres
func (s *GenreService) List(ctx context.Context, p db.Pagination) (*db.Page[*models.Genre], error) {
	return listed(s.repos.Genres.List(ctx, p))
}

// Search retrieves genres whose name contains name, ignoring case
func (s *GenreService) Search(ctx context.Context, name string, p db.Pagination) (*db.Page[*models.Genre], error) {
	return listed(s.repos.Genres.SearchByName(ctx, name, p))
}

// Popular lists genres by name
func (s *GenreService) Popular(ctx context.Context, p db.Pagination) (*db.Page[*models.Genre], error) {
	return s.List(ctx, p)
}

// ListByContent retrieves the genres linked to a content item
func (s *GenreService) ListByContent(ctx context.Context, contentID uuid.UUID, p db.Pagination) (*db.Page[*models.Genre], error) {
	if err := requireContent(ctx, s.repos, contentID); err != nil {
		return nil, err
	}
	return listed(s.repos.ContentGenres.GenresForContent(ctx, contentID, p))
}

// Rename changes a genre's name, keeping names unique
func (s *GenreService) Rename(ctx context.Context, caller auth.Caller, id uuid.UUID, name string) (*models.Genre, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	genre, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	genre.Name = strings.TrimSpace(name)
	if err := models.Validate(genre); err != nil {
		return nil, invalid(err)
	}
	if err := s.requireUnusedName(ctx, genre.Name, id); err != nil {
		return nil, err
	}

	if err := s.repos.Genres.Update(ctx, genre); err != nil {
		switch {
		case db.IsNotFound(err):
			return nil, apperr.NotFound(resourceGenre, "id", id)
		case db.IsDuplicate(err):
			return nil, apperr.Conflict(resourceGenre, "name", genre.Name)
		}
		logger.Log.Error().
			Err(err).
			Str("genre_id", id.String()).
			Msg("Failed to rename genre")
		return nil, apperr.Unexpected(err)
	}
	return genre, nil
}

// Delete removes a genre that no content references
func (s *GenreService) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.repos.ContentGenres.CountContent(ctx, id)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("genre_id", id.String()).
			Msg("Failed to count content for genre")
		return apperr.Unexpected(err)
	}
	if count > 0 {
		logger.Log.Warn().
			Str("genre_id", id.String()).
			Int64("content_count", count).
			Msg("Genre delete rejected: genre in use")
		return apperr.New(apperr.KindBusinessRuleViolation,
			"Cannot delete genre. %d content items are assigned this genre.", count)
	}

	if err := s.repos.Genres.Delete(ctx, id); err != nil {
		switch {
		case db.IsNotFound(err):
			return apperr.NotFound(resourceGenre, "id", id)
		case db.IsForeignKey(err):
			return apperr.New(apperr.KindBusinessRuleViolation, "Cannot delete genre. Content items are assigned this genre.")
		}
		logger.Log.Error().
			Err(err).
			Str("genre_id", id.String()).
			Msg("Failed to delete genre")
		return apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("genre_id", id.String()).
		Msg("Genre deleted")
	return nil
}

// ContentFor retrieves the content tagged with a genre
func (s *GenreService) ContentFor(ctx context.Context, id uuid.UUID, p db.Pagination) (*db.Page[*models.Content], error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return listed(s.repos.ContentGenres.ContentForGenre(ctx, id, p))
}

// ContentForName retrieves the content tagged with the exactly named genre
func (s *GenreService) ContentForName(ctx context.Context, name string, p db.Pagination) (*db.Page[*models.Content], error) {
	return listed(s.repos.ContentGenres.ContentByGenreName(ctx, name, p))
}

// CountContent counts the content tagged with a genre
func (s *GenreService) CountContent(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return 0, err
	}
	count, err := s.repos.ContentGenres.CountContent(ctx, id)
	if err != nil {
		return 0, apperr.Unexpected(err)
	}
	return count, nil
}

// requireUnusedName fails with Conflict if another genre already has name
func (s *GenreService) requireUnusedName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repos.Genres.GetByName(ctx, name)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		logger.Log.Error().
			Err(err).
			Str("name", name).
			Msg("Failed to check genre name")
		return apperr.Unexpected(err)
	}
	if existing.ID == self {
		return nil
	}
	logger.Log.Warn().
		Str("name", name).
		Msg("Genre rejected: name already exists")
	return apperr.Conflict(resourceGenre, "name", name)
}

// requireContent fails with NotFound if the content item does not exist
func requireContent(ctx context.Context, repos *db.Repositories, id uuid.UUID) error {
	exists, err := repos.Content.Exists(ctx, id)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_id", id.String()).
			Msg("Failed to check content existence")
		return apperr.Unexpected(err)
	}
	if !exists {
		return apperr.NotFound(resourceContent, "id", id)
	}
	return nil
}
