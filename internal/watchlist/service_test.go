package watchlist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

var admin = auth.Caller{UserID: uuid.New(), Role: models.RoleAdmin}

type fixture struct {
	repos   *db.Repositories
	service *Service
	series  *models.ContentType
	movie   *models.ContentType
	drama   *models.Genre
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate("file://../../migrations"))

	repos := db.NewRepositories(database)
	ctx := context.Background()
	f := &fixture{
		repos:   repos,
		service: NewService(repos, auth.NewAuthorizer(nil, nil)),
		series:  models.NewContentType("Series"),
		movie:   models.NewContentType("Movie"),
		drama:   models.NewGenre("Drama"),
	}
	require.NoError(t, repos.ContentTypes.Create(ctx, f.series))
	require.NoError(t, repos.ContentTypes.Create(ctx, f.movie))
	require.NoError(t, repos.Genres.Create(ctx, f.drama))
	return f
}

func (f *fixture) user(t *testing.T, email string) auth.Caller {
	t.Helper()
	ctx := context.Background()
	role, err := f.repos.Roles.GetByName(ctx, models.RoleUser)
	require.NoError(t, err)
	u := models.NewUser("Viewer", email, "hash", nil, role.ID)
	require.NoError(t, f.repos.Users.Create(ctx, u))
	return auth.Caller{UserID: u.ID, Role: models.RoleUser}
}

func (f *fixture) content(t *testing.T, title string, typeID uuid.UUID, genreIDs ...uuid.UUID) uuid.UUID {
	t.Helper()
	c := models.NewContent(title, typeID)
	require.NoError(t, f.repos.Content.CreateWithGenres(context.Background(), c, genreIDs))
	return c.ID
}

func TestAddRemove(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	u := f.user(t, "u@example.com")
	x := f.content(t, "X", f.movie.ID)

	require.NoError(t, f.service.Add(ctx, u, u.UserID, x))

	present, err := f.service.IsPresent(ctx, u, u.UserID, x)
	require.NoError(t, err)
	assert.True(t, present)

	err = f.service.Add(ctx, u, u.UserID, x)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Content already in watchlist", apperr.MessageOf(err))

	require.NoError(t, f.service.Remove(ctx, u, u.UserID, x))
	present, err = f.service.IsPresent(ctx, u, u.UserID, x)
	require.NoError(t, err)
	assert.False(t, present)

	err = f.service.Remove(ctx, u, u.UserID, x)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Content not in watchlist", apperr.MessageOf(err))
}

func TestAddUnknownIDs(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	u := f.user(t, "u@example.com")
	x := f.content(t, "X", f.movie.ID)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.service.Add(ctx, u, u.UserID, uuid.New())))

	ghost := uuid.New()
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.service.Add(ctx, admin, ghost, x)))
}

func TestSelfOrAdmin(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	u2 := f.user(t, "u2@example.com")
	x := f.content(t, "X", f.movie.ID)

	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(f.service.Add(ctx, u2, u1.UserID, x)))
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(f.service.Add(ctx, auth.Caller{}, u1.UserID, x)))
	require.NoError(t, f.service.Add(ctx, admin, u1.UserID, x))

	_, err := f.service.ListByUser(ctx, u2, u1.UserID, db.Pagination{})
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))

	_, err = f.service.UsersByContent(ctx, u1, x, db.Pagination{})
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))

	users, err := f.service.UsersByContent(ctx, admin, x, db.Pagination{})
	require.NoError(t, err)
	require.Len(t, users.Items, 1)
	assert.Equal(t, u1.UserID, users.Items[0].ID)
}

func TestClear(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	u := f.user(t, "u@example.com")

	require.NoError(t, f.service.Clear(ctx, u, u.UserID))

	require.NoError(t, f.service.Add(ctx, u, u.UserID, f.content(t, "X", f.movie.ID)))
	require.NoError(t, f.service.Add(ctx, u, u.UserID, f.content(t, "Y", f.movie.ID)))
	require.NoError(t, f.service.Clear(ctx, u, u.UserID))

	count, err := f.service.CountByUser(ctx, u, u.UserID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransfer(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	u2 := f.user(t, "u2@example.com")
	x := f.content(t, "X", f.movie.ID)
	y := f.content(t, "Y", f.movie.ID)

	require.NoError(t, f.service.Add(ctx, u1, u1.UserID, x))
	require.NoError(t, f.service.Add(ctx, u1, u1.UserID, y))
	require.NoError(t, f.service.Add(ctx, u2, u2.UserID, y))

	ok, err := f.service.Transfer(ctx, admin, u1.UserID, u2.UserID)
	require.NoError(t, err)
	assert.True(t, ok)

	page, err := f.service.ContentByUser(ctx, u2, u2.UserID, db.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	titles := []string{page.Items[0].Title, page.Items[1].Title}
	assert.Equal(t, []string{"X", "Y"}, titles)

	// The source keeps its entries
	count, err := f.service.CountByUser(ctx, u1, u1.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	t.Run("unknown user", func(t *testing.T) {
		ok, err := f.service.Transfer(ctx, admin, u1.UserID, uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("caller must own both sides", func(t *testing.T) {
		_, err := f.service.Transfer(ctx, u1, u1.UserID, u2.UserID)
		assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))
	})
}

func TestFilteredContent(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	u := f.user(t, "u@example.com")
	show := f.content(t, "Show A", f.series.ID, f.drama.ID)
	film := f.content(t, "Film B", f.movie.ID)

	require.NoError(t, f.service.Add(ctx, u, u.UserID, show))
	require.NoError(t, f.service.Add(ctx, u, u.UserID, film))

	byGenre, err := f.service.ContentByUserAndGenre(ctx, u, u.UserID, "Drama", db.Pagination{})
	require.NoError(t, err)
	require.Len(t, byGenre.Items, 1)
	assert.Equal(t, "Show A", byGenre.Items[0].Title)

	byType, err := f.service.ContentByUserAndType(ctx, u, u.UserID, "Movie", db.Pagination{})
	require.NoError(t, err)
	require.Len(t, byType.Items, 1)
	assert.Equal(t, "Film B", byType.Items[0].Title)

	entries, err := f.service.ListByUser(ctx, u, u.UserID, db.Pagination{})
	require.NoError(t, err)
	require.Len(t, entries.Items, 2)
	require.NotNil(t, entries.Items[0].Content)

	watchers, err := f.service.CountByContent(ctx, u, show)
	require.NoError(t, err)
	assert.Equal(t, int64(1), watchers)
}
