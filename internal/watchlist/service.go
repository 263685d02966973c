// Package watchlist manages the content users have saved to watch later.
package watchlist

import (
	"context"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/logger"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

const (
	msgAlreadyPresent = "Content already in watchlist"
	msgNotPresent     = "Content not in watchlist"
)

// Service handles business logic for watchlists
type Service struct {
	repos *db.Repositories
	authz *auth.Authorizer
}

// NewService creates a new watchlist service instance
func NewService(repos *db.Repositories, authz *auth.Authorizer) *Service {
	return &Service{repos: repos, authz: authz}
}

// Add saves content to a user's watchlist
func (s *Service) Add(ctx context.Context, caller auth.Caller, userID, contentID uuid.UUID) error {
	if err := s.authz.RequireSelfOrAdmin(caller, userID); err != nil {
		return err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	exists, err := s.repos.Content.Exists(ctx, contentID)
	if err != nil {
		return s.unexpected(err, userID, contentID, "Failed to check content existence")
	}
	if !exists {
		return apperr.NotFound("Content", "id", contentID)
	}

	present, err := s.repos.Watchlist.Exists(ctx, userID, contentID)
	if err != nil {
		return s.unexpected(err, userID, contentID, "Failed to check watchlist entry")
	}
	if present {
		logger.Log.Warn().
			Str("user_id", userID.String()).
			Str("content_id", contentID.String()).
			Msg("Watchlist add rejected: already present")
		return apperr.New(apperr.KindConflict, msgAlreadyPresent)
	}

	if err := s.repos.Watchlist.Add(ctx, models.NewWatchlistEntry(userID, contentID)); err != nil {
		switch {
		case db.IsDuplicate(err):
			return apperr.New(apperr.KindConflict, msgAlreadyPresent)
		case db.IsForeignKey(err):
			return apperr.New(apperr.KindNotFound, "user or content no longer exists")
		}
		return s.unexpected(err, userID, contentID, "Failed to add watchlist entry")
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Str("content_id", contentID.String()).
		Msg("Content added to watchlist")
	return nil
}

// Remove deletes content from a user's watchlist
func (s *Service) Remove(ctx context.Context, caller auth.Caller, userID, contentID uuid.UUID) error {
	if err := s.authz.RequireSelfOrAdmin(caller, userID); err != nil {
		return err
	}
	if err := s.repos.Watchlist.Remove(ctx, userID, contentID); err != nil {
		if db.IsNotFound(err) {
			logger.Log.Warn().
				Str("user_id", userID.String()).
				Str("content_id", contentID.String()).
				Msg("Watchlist remove rejected: not present")
			return apperr.New(apperr.KindConflict, msgNotPresent)
		}
		return s.unexpected(err, userID, contentID, "Failed to remove watchlist entry")
	}
	return nil
}

// Clear empties a user's watchlist; clearing an empty list is a no-op
func (s *Service) Clear(ctx context.Context, caller auth.Caller, userID uuid.UUID) error {
	if err := s.authz.RequireSelfOrAdmin(caller, userID); err != nil {
		return err
	}
	removed, err := s.repos.Watchlist.Clear(ctx, userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to clear watchlist")
		return apperr.Unexpected(err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Int64("removed", removed).
		Msg("Watchlist cleared")
	return nil
}

// Transfer copies from's watchlist onto to's, skipping content to already has
// It reports false when either user is missing or the copy fails; nothing partial is kept
func (s *Service) Transfer(ctx context.Context, caller auth.Caller, from, to uuid.UUID) (bool, error) {
	if err := s.authz.RequireSelfOrAdmin(caller, from); err != nil {
		return false, err
	}
	if err := s.authz.RequireSelfOrAdmin(caller, to); err != nil {
		return false, err
	}

	for _, id := range []uuid.UUID{from, to} {
		exists, err := s.repos.Users.ExistsByID(ctx, id)
		if err != nil || !exists {
			logger.Log.Warn().
				Err(err).
				Str("user_id", id.String()).
				Msg("Watchlist transfer skipped: user unavailable")
			return false, nil
		}
	}

	copied, err := s.repos.Watchlist.Transfer(ctx, from, to)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("from_user_id", from.String()).
			Str("to_user_id", to.String()).
			Msg("Watchlist transfer failed")
		return false, nil
	}

	logger.Log.Info().
		Str("from_user_id", from.String()).
		Str("to_user_id", to.String()).
		Int("copied", copied).
		Msg("Watchlist transferred")
	return true, nil
}

// IsPresent reports whether content is on a user's watchlist
func (s *Service) IsPresent(ctx context.Context, caller auth.Caller, userID, contentID uuid.UUID) (bool, error) {
	if err := s.authz.RequireSelfOrAdmin(caller, userID); err != nil {
		return false, err
	}
	present, err := s.repos.Watchlist.Exists(ctx, userID, contentID)
	if err != nil {
		return false, s.unexpected(err, userID, contentID, "Failed to check watchlist entry")
	}
	return present, nil
}

// CountByUser counts the entries on a user's watchlist
func (s *Service) CountByUser(ctx context.Context, caller auth.Caller, userID uuid.UUID) (int64, error) {
	if err := s.authz.RequireSelfOrAdmin(caller, userID); err != nil {
		return 0, err
	}
	count, err := s.repos.Watchlist.CountByUser(ctx, userID)
	if err != nil {
		return 0, apperr.Unexpected(err)
	}
	return count, nil
}

// CountByContent counts the watchlists that hold a content item
func (s *Service) CountByContent(ctx context.Context, caller auth.Caller, contentID uuid.UUID) (int64, error) {
	if err := s.authz.RequireAuthenticated(caller); err != nil {
		return 0, err
	}
	count, err := s.repos.Watchlist.CountByContent(ctx, contentID)
	if err != nil {
		return 0, apperr.Unexpected(err)
	}
	return count, nil
}

// ListByUser lists a user's entries, most recently added first
func (s *Service) ListByUser(ctx context.Context, caller auth.Caller, userID uuid.UUID, p db.Pagination) (*db.Page[*models.WatchlistEntry], error) {
	if err := s.authz.RequireSelfOrAdmin(caller, userID); err != nil {
		return nil, err
	}
	return listed(s.repos.Watchlist.ListByUser(ctx, userID, p))
}

// ContentByUser lists the content on a user's watchlist
func (s *Service) ContentByUser(ctx context.Context, caller auth.Caller, userID uuid.UUID, p db.Pagination) (*db.Page[*models.Content], error) {
	if err := s.authz.RequireSelfOrAdmin(caller, userID); err != nil {
		return nil, err
	}
	return listed(s.repos.Watchlist.ContentByUser(ctx, userID, p))
}

// ContentByUserAndGenre lists watchlist content tagged with the exactly named genre
func (s *Service) ContentByUserAndGenre(ctx context.Context, caller auth.Caller, userID uuid.UUID, genre string, p db.Pagination) (*db.Page[*models.Content], error) {
	if err := s.authz.RequireSelfOrAdmin(caller, userID); err != nil {
		return nil, err
	}
	return listed(s.repos.Watchlist.ContentByUserAndGenre(ctx, userID, genre, p))
}

// ContentByUserAndType lists watchlist content of the exactly named type
func (s *Service) ContentByUserAndType(ctx context.Context, caller auth.Caller, userID uuid.UUID, contentType string, p db.Pagination) (*db.Page[*models.Content], error) {
	if err := s.authz.RequireSelfOrAdmin(caller, userID); err != nil {
		return nil, err
	}
	return listed(s.repos.Watchlist.ContentByUserAndType(ctx, userID, contentType, p))
}

// UsersByContent lists the users watching a content item
func (s *Service) UsersByContent(ctx context.Context, caller auth.Caller, contentID uuid.UUID, p db.Pagination) (*db.Page[*models.User], error) {
	if err := s.authz.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return listed(s.repos.Watchlist.UsersByContent(ctx, contentID, p))
}

func (s *Service) requireUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.repos.Users.ExistsByID(ctx, userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to check user existence")
		return apperr.Unexpected(err)
	}
	if !exists {
		return apperr.NotFound("User", "id", userID)
	}
	return nil
}

func (s *Service) unexpected(err error, userID, contentID uuid.UUID, msg string) error {
	logger.Log.Error().
		Err(err).
		Str("user_id", userID.String()).
		Str("content_id", contentID.String()).
		Msg(msg)
	return apperr.Unexpected(err)
}

func listed[T any](page *db.Page[T], err error) (*db.Page[T], error) {
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list watchlist records")
		return nil, apperr.Unexpected(err)
	}
	return page, nil
}
