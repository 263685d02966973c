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

// ContentTypeService handles business logic for content types
type ContentTypeService struct {
	repos *db.Repositories
	authz *auth.Authorizer
}

// NewContentTypeService creates a new content type service instance
func NewContentTypeService(repos *db.Repositories, authz *auth.Authorizer) *ContentTypeService {
	return &ContentTypeService{repos: repos, authz: authz}
}

// Create adds a content type with a unique name
func (s *ContentTypeService) Create(ctx context.Context, caller auth.Caller, name string) (*models.ContentType, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	contentType := models.NewContentType(strings.TrimSpace(name))
	if err := models.Validate(contentType); err != nil {
		return nil, invalid(err)
	}
	if err := s.requireUnusedName(ctx, contentType.Name, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.repos.ContentTypes.Create(ctx, contentType); err != nil {
		if db.IsDuplicate(err) {
			return nil, apperr.Conflict(resourceContentType, "name", contentType.Name)
		}
		logger.Log.Error().
			Err(err).
			Str("name", contentType.Name).
			Msg("Failed to create content type")
		return nil, apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("content_type_id", contentType.ID.String()).
		Str("name", contentType.Name).
		Msg("Content type created")
	return contentType, nil
}

// Get retrieves a content type by UUID
func (s *ContentTypeService) Get(ctx context.Context, id uuid.UUID) (*models.ContentType, error) {
	contentType, err := s.repos.ContentTypes.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceContentType, "id", id)
		}
		logger.Log.Error().
			Err(err).
			Str("content_type_id", id.String()).
			Msg("Failed to get content type")
		return nil, apperr.Unexpected(err)
	}
	return contentType, nil
}

// GetByName retrieves a content type by its exact name
func (s *ContentTypeService) GetByName(ctx context.Context, name string) (*models.ContentType, error) {
	contentType, err := s.repos.ContentTypes.GetByName(ctx, name)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(resourceContentType, "name", name)
		}
		logger.Log.Error().
			Err(err).
			Str("name", name).
			Msg("Failed to get content type by name")
		return nil, apperr.Unexpected(err)
	}
	return contentType, nil
}

// List retrieves all content types
func (s *ContentTypeService) List(ctx context.Context, p db.Pagination) (*db.Page[*models.ContentType], error) {
	return listed(s.repos.ContentTypes.List(ctx, p))
}

// Search retrieves content types whose name contains name, ignoring case
func (s *ContentTypeService) Search(ctx context.Context, name string, p db.Pagination) (*db.Page[*models.ContentType], error) {
	return listed(s.repos.ContentTypes.SearchByName(ctx, name, p))
}

// Popular lists content types by name
func (s *ContentTypeService) Popular(ctx context.Context, p db.Pagination) (*db.Page[*models.ContentType], error) {
	return s.List(ctx, p)
}

// Rename changes a content type's name, keeping names unique
func (s *ContentTypeService) Rename(ctx context.Context, caller auth.Caller, id uuid.UUID, name string) (*models.ContentType, error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	contentType, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	contentType.Name = strings.TrimSpace(name)
	if err := models.Validate(contentType); err != nil {
		return nil, invalid(err)
	}
	if err := s.requireUnusedName(ctx, contentType.Name, id); err != nil {
		return nil, err
	}

	if err := s.repos.ContentTypes.Update(ctx, contentType); err != nil {
		switch {
		case db.IsNotFound(err):
			return nil, apperr.NotFound(resourceContentType, "id", id)
		case db.IsDuplicate(err):
			return nil, apperr.Conflict(resourceContentType, "name", contentType.Name)
		}
		logger.Log.Error().
			Err(err).
			Str("content_type_id", id.String()).
			Msg("Failed to rename content type")
		return nil, apperr.Unexpected(err)
	}
	return contentType, nil
}

// Delete removes a content type that no content references
func (s *ContentTypeService) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.repos.Content.CountByTypeID(ctx, id)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_type_id", id.String()).
			Msg("Failed to count content for content type")
		return apperr.Unexpected(err)
	}
	if count > 0 {
		logger.Log.Warn().
			Str("content_type_id", id.String()).
			Int64("content_count", count).
			Msg("Content type delete rejected: type in use")
		return apperr.New(apperr.KindBusinessRuleViolation,
			"Cannot delete content type. %d content items are assigned this type.", count)
	}

	if err := s.repos.ContentTypes.Delete(ctx, id); err != nil {
		switch {
		case db.IsNotFound(err):
			return apperr.NotFound(resourceContentType, "id", id)
		case db.IsForeignKey(err):
			return apperr.New(apperr.KindBusinessRuleViolation, "Cannot delete content type. Content items are assigned this type.")
		}
		logger.Log.Error().
			Err(err).
			Str("content_type_id", id.String()).
			Msg("Failed to delete content type")
		return apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("content_type_id", id.String()).
		Msg("Content type deleted")
	return nil
}

// ContentFor retrieves the content of a type
func (s *ContentTypeService) ContentFor(ctx context.Context, id uuid.UUID, p db.Pagination) (*db.Page[*models.Content], error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return listed(s.repos.Content.ListByTypeID(ctx, id, p))
}

// ContentForName retrieves the content of the named type
func (s *ContentTypeService) ContentForName(ctx context.Context, name string, p db.Pagination) (*db.Page[*models.Content], error) {
	contentType, err := s.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return listed(s.repos.Content.ListByTypeID(ctx, contentType.ID, p))
}

// CountContent counts the content of a type
func (s *ContentTypeService) CountContent(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return 0, err
	}
	count, err := s.repos.Content.CountByTypeID(ctx, id)
	if err != nil {
		return 0, apperr.Unexpected(err)
	}
	return count, nil
}

func (s *ContentTypeService) requireUnusedName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repos.ContentTypes.GetByName(ctx, name)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		logger.Log.Error().
			Err(err).
			Str("name", name).
			Msg("Failed to check content type name")
		return apperr.Unexpected(err)
	}
	if existing.ID == self {
		return nil
	}
	logger.Log.Warn().
		Str("name", name).
		Msg("Content type rejected: name already exists")
	return apperr.Conflict(resourceContentType, "name", name)
}
