package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

type testServices struct {
	repos         *db.Repositories
	content       *ContentService
	contentTypes  *ContentTypeService
	genres        *GenreService
	contentGenres *ContentGenreService
	episodes      *EpisodeService
}

var (
	admin  = auth.Caller{UserID: uuid.New(), Role: models.RoleAdmin}
	viewer = auth.Caller{UserID: uuid.New(), Role: models.RoleUser}
)

// setupTestServices creates catalog services over a migrated SQLite database
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate("file://../../migrations"))

	repos := db.NewRepositories(database)
	authz := auth.NewAuthorizer(nil, nil)
	return &testServices{
		repos:         repos,
		content:       NewContentService(repos, authz),
		contentTypes:  NewContentTypeService(repos, authz),
		genres:        NewGenreService(repos, authz),
		contentGenres: NewContentGenreService(repos, authz),
		episodes:      NewEpisodeService(repos, authz),
	}
}

func (s *testServices) mustType(t *testing.T, name string) *models.ContentType {
	t.Helper()
	ct, err := s.contentTypes.Create(context.Background(), admin, name)
	require.NoError(t, err)
	return ct
}

func (s *testServices) mustGenre(t *testing.T, name string) *models.Genre {
	t.Helper()
	g, err := s.genres.Create(context.Background(), admin, name)
	require.NoError(t, err)
	return g
}

func (s *testServices) mustContent(t *testing.T, title string, typeID uuid.UUID, genreIDs ...uuid.UUID) *models.Content {
	t.Helper()
	c, err := s.content.Create(context.Background(), admin, ContentInput{
		Title:         title,
		ContentTypeID: typeID,
		GenreIDs:      genreIDs,
	})
	require.NoError(t, err)
	return c
}

func genreNames(t *testing.T, s *testServices, contentID uuid.UUID) []string {
	t.Helper()
	page, err := s.contentGenres.GenresForContent(context.Background(), contentID, db.Pagination{})
	require.NoError(t, err)
	names := make([]string, 0, len(page.Items))
	for _, g := range page.Items {
		names = append(names, g.Name)
	}
	return names
}

func TestContentServiceCreate(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()
	series := s.mustType(t, "Series")
	drama := s.mustGenre(t, "Drama")
	crime := s.mustGenre(t, "Crime")

	t.Run("requires admin", func(t *testing.T) {
		_, err := s.content.Create(ctx, viewer, ContentInput{Title: "X", ContentTypeID: series.ID})
		assert.True(t, errors.Is(err, apperr.ErrAccessDenied))

		_, err = s.content.Create(ctx, auth.Caller{}, ContentInput{Title: "X", ContentTypeID: series.ID})
		assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
	})

	t.Run("unknown content type", func(t *testing.T) {
		_, err := s.content.Create(ctx, admin, ContentInput{Title: "X", ContentTypeID: uuid.New()})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("unknown genre writes nothing", func(t *testing.T) {
		_, err := s.content.Create(ctx, admin, ContentInput{
			Title:         "Orphan",
			ContentTypeID: series.ID,
			GenreIDs:      []uuid.UUID{drama.ID, uuid.New()},
		})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

		page, err := s.content.SearchByTitle(ctx, "Orphan", db.Pagination{})
		require.NoError(t, err)
		assert.Zero(t, page.Total)
	})

	t.Run("empty title is invalid", func(t *testing.T) {
		_, err := s.content.Create(ctx, admin, ContentInput{Title: "", ContentTypeID: series.ID})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("links genres and defaults to available", func(t *testing.T) {
		c := s.mustContent(t, "Show A", series.ID, drama.ID, crime.ID, drama.ID)
		assert.True(t, c.IsAvailable)
		require.NotNil(t, c.ContentType)
		assert.Equal(t, "Series", c.ContentType.Name)
		assert.ElementsMatch(t, []string{"Drama", "Crime"}, genreNames(t, s, c.ID))
	})
}

func TestContentServiceUpdateToggleDelete(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()
	movie := s.mustType(t, "Movie")
	series := s.mustType(t, "Series")
	c := s.mustContent(t, "Heat", movie.ID)

	lang := "en"
	updated, err := s.content.Update(ctx, admin, c.ID, ContentInput{
		Title:         "Heat (1995)",
		Language:      &lang,
		ContentTypeID: series.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Heat (1995)", updated.Title)
	assert.Equal(t, series.ID, updated.ContentTypeID)
	require.NotNil(t, updated.Language)
	assert.Equal(t, "en", *updated.Language)

	_, err = s.content.Update(ctx, admin, uuid.New(), ContentInput{Title: "Nope", ContentTypeID: movie.ID})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	toggled, err := s.content.ToggleAvailability(ctx, admin, c.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsAvailable)
	toggled, err = s.content.ToggleAvailability(ctx, admin, c.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsAvailable)

	_, err = s.content.ToggleAvailability(ctx, viewer, c.ID)
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))

	require.NoError(t, s.content.Delete(ctx, admin, c.ID))
	err = s.content.Delete(ctx, admin, c.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestContentServiceDateRange(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()
	movie := s.mustType(t, "Movie")

	released := time.Date(2020, 6, 15, 18, 30, 0, 0, time.UTC)
	_, err := s.content.Create(ctx, admin, ContentInput{Title: "Midyear", ContentTypeID: movie.ID, ReleaseDate: &released})
	require.NoError(t, err)

	start := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	page, err := s.content.ListByReleaseDateRange(ctx, start, start, db.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = s.content.ListByReleaseDateRange(ctx, start.AddDate(0, 0, 1), start, db.Pagination{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestNameUniqueness(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()
	drama := s.mustGenre(t, "Drama")

	_, err := s.genres.Create(ctx, admin, "Drama")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Uniqueness is case-sensitive
	_, err = s.genres.Create(ctx, admin, "drama")
	assert.NoError(t, err)

	// Renaming to its own name is allowed
	_, err = s.genres.Rename(ctx, admin, drama.ID, "Drama")
	assert.NoError(t, err)

	_, err = s.genres.Rename(ctx, admin, drama.ID, "drama")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = s.genres.Create(ctx, admin, "   ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	s.mustType(t, "Movie")
	_, err = s.contentTypes.Create(ctx, admin, "Movie")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Lookups by search stay case-insensitive
	page, err := s.genres.Search(ctx, "DRAMA", db.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestDeleteGuards(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()
	series := s.mustType(t, "Series")
	unused := s.mustType(t, "Short")
	drama := s.mustGenre(t, "Drama")
	c := s.mustContent(t, "Show A", series.ID, drama.ID)

	err := s.genres.Delete(ctx, admin, drama.ID)
	require.Equal(t, apperr.KindBusinessRuleViolation, apperr.KindOf(err))
	assert.Equal(t, "Cannot delete genre. 1 content items are assigned this genre.", apperr.MessageOf(err))

	err = s.contentTypes.Delete(ctx, admin, series.ID)
	require.Equal(t, apperr.KindBusinessRuleViolation, apperr.KindOf(err))
	assert.Equal(t, "Cannot delete content type. 1 content items are assigned this type.", apperr.MessageOf(err))

	assert.NoError(t, s.contentTypes.Delete(ctx, admin, unused.ID))

	err = s.genres.Delete(ctx, admin, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, s.contentGenres.Unlink(ctx, admin, c.ID, drama.ID))
	assert.NoError(t, s.genres.Delete(ctx, admin, drama.ID))
}

func TestContentGenreLinking(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()
	series := s.mustType(t, "Series")
	drama := s.mustGenre(t, "Drama")
	comedy := s.mustGenre(t, "Comedy")
	c := s.mustContent(t, "Show A", series.ID, drama.ID)

	t.Run("duplicate link is a conflict", func(t *testing.T) {
		err := s.contentGenres.Link(ctx, admin, c.ID, drama.ID)
		require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		assert.Equal(t, "Genre already assigned to content", apperr.MessageOf(err))
		assert.Equal(t, []string{"Drama"}, genreNames(t, s, c.ID))
	})

	t.Run("link then unlink restores the set", func(t *testing.T) {
		require.NoError(t, s.contentGenres.Link(ctx, admin, c.ID, comedy.ID))
		assert.ElementsMatch(t, []string{"Drama", "Comedy"}, genreNames(t, s, c.ID))

		require.NoError(t, s.contentGenres.Unlink(ctx, admin, c.ID, comedy.ID))
		assert.Equal(t, []string{"Drama"}, genreNames(t, s, c.ID))
	})

	t.Run("unlink absent is a conflict", func(t *testing.T) {
		err := s.contentGenres.Unlink(ctx, admin, c.ID, comedy.ID)
		require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		assert.Equal(t, "Genre not assigned to content", apperr.MessageOf(err))
	})

	t.Run("unknown ids are not found", func(t *testing.T) {
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(s.contentGenres.Link(ctx, admin, uuid.New(), drama.ID)))
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(s.contentGenres.Link(ctx, admin, c.ID, uuid.New())))
	})

	t.Run("viewer cannot link", func(t *testing.T) {
		assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(s.contentGenres.Link(ctx, viewer, c.ID, comedy.ID)))
	})
}

func TestContentGenreBulkReplace(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()
	series := s.mustType(t, "Series")
	drama := s.mustGenre(t, "Drama")
	comedy := s.mustGenre(t, "Comedy")
	crime := s.mustGenre(t, "Crime")
	c := s.mustContent(t, "Show A", series.ID, drama.ID)

	err := s.contentGenres.BulkReplace(ctx, admin, c.ID, []uuid.UUID{comedy.ID, uuid.New()})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, []string{"Drama"}, genreNames(t, s, c.ID), "failed replace must leave links untouched")

	require.NoError(t, s.contentGenres.BulkReplace(ctx, admin, c.ID, []uuid.UUID{comedy.ID, crime.ID, comedy.ID}))
	assert.ElementsMatch(t, []string{"Comedy", "Crime"}, genreNames(t, s, c.ID))

	count, err := s.contentGenres.CountGenres(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, s.contentGenres.BulkReplace(ctx, admin, c.ID, nil))
	assert.Empty(t, genreNames(t, s, c.ID))

	err = s.contentGenres.BulkReplace(ctx, admin, uuid.New(), []uuid.UUID{drama.ID})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestEpisodeServicePlacement(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()
	series := s.mustType(t, "Series")
	show := s.mustContent(t, "Show A", series.ID)

	first, err := s.episodes.Create(ctx, admin, EpisodeInput{ContentID: show.ID, SeasonNumber: 1, EpisodeNumber: 1, Title: "Pilot"})
	require.NoError(t, err)

	_, err = s.episodes.Create(ctx, admin, EpisodeInput{ContentID: show.ID, SeasonNumber: 1, EpisodeNumber: 1, Title: "Again"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = s.episodes.Create(ctx, admin, EpisodeInput{ContentID: uuid.New(), SeasonNumber: 1, EpisodeNumber: 1, Title: "Lost"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = s.episodes.Create(ctx, admin, EpisodeInput{ContentID: show.ID, SeasonNumber: 0, EpisodeNumber: 1, Title: "Zero"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	second, err := s.episodes.Create(ctx, admin, EpisodeInput{ContentID: show.ID, SeasonNumber: 1, EpisodeNumber: 2, Title: "Second"})
	require.NoError(t, err)

	// Keeping its own slot is not a collision
	_, err = s.episodes.Update(ctx, admin, first.ID, EpisodeInput{ContentID: show.ID, SeasonNumber: 1, EpisodeNumber: 1, Title: "Pilot (cut)"})
	assert.NoError(t, err)

	_, err = s.episodes.Update(ctx, admin, second.ID, EpisodeInput{ContentID: show.ID, SeasonNumber: 1, EpisodeNumber: 1, Title: "Clash"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	owner, err := s.episodes.ContentFor(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, show.ID, owner.ID)
}

func TestEpisodeServiceNavigation(t *testing.T) {
	s := setupTestServices(t)
	ctx := context.Background()
	series := s.mustType(t, "Series")
	show := s.mustContent(t, "Show A", series.ID)

	for _, pos := range [][2]int{{1, 1}, {1, 2}, {3, 1}, {3, 2}} {
		_, err := s.episodes.Create(ctx, admin, EpisodeInput{
			ContentID:     show.ID,
			SeasonNumber:  pos[0],
			EpisodeNumber: pos[1],
			Title:         "Episode",
		})
		require.NoError(t, err)
	}

	next, err := s.episodes.Next(ctx, show.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, [2]int{3, 1}, [2]int{next.SeasonNumber, next.EpisodeNumber})

	back, err := s.episodes.Previous(ctx, show.ID, next.SeasonNumber, next.EpisodeNumber)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 2}, [2]int{back.SeasonNumber, back.EpisodeNumber})

	_, err = s.episodes.Next(ctx, show.ID, 3, 2)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "No next episode", apperr.MessageOf(err))

	_, err = s.episodes.Previous(ctx, show.ID, 1, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = s.episodes.Next(ctx, show.ID, 2, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	seasons, err := s.episodes.Seasons(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, seasons)
}
