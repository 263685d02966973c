// Package catalog implements the business rules for content, content types,
// genres, content-genre links and episodes.
package catalog

import (
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// Resource names used in error messages
const (
	resourceContent     = "Content"
	resourceContentType = "ContentType"
	resourceGenre       = "Genre"
	resourceEpisode     = "Episode"
)

// Business rule messages
const (
	msgGenreAlreadyLinked = "Genre already assigned to content"
	msgGenreNotLinked     = "Genre not assigned to content"
	msgEpisodeExists      = "Episode already exists for this season and episode number"
	msgNoNextEpisode      = "No next episode"
	msgNoPreviousEpisode  = "No previous episode"
	msgInvalidDateRange   = "start date must not be after end date"
)

// invalid converts a model validation failure into a Validation error
func invalid(err error) error {
	return apperr.Wrap(apperr.KindValidation, err, "%s", models.ValidationMessage(err))
}
