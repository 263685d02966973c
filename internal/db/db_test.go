package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/reelhouse/internal/models"
	"gorm.io/gorm"
)

// setupTestDB creates a migrated SQLite database in a temp dir
func setupTestDB(t *testing.T) (*DB, *Repositories) {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := New(tmpFile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, database.Migrate("file://../../migrations"))

	return database, NewRepositories(database)
}

func seedContentType(t *testing.T, repos *Repositories, name string) *models.ContentType {
	t.Helper()
	ct := models.NewContentType(name)
	require.NoError(t, repos.ContentTypes.Create(context.Background(), ct))
	return ct
}

func seedGenre(t *testing.T, repos *Repositories, name string) *models.Genre {
	t.Helper()
	g := models.NewGenre(name)
	require.NoError(t, repos.Genres.Create(context.Background(), g))
	return g
}

func seedContent(t *testing.T, repos *Repositories, title string, typeID uuid.UUID, released time.Time) *models.Content {
	t.Helper()
	c := models.NewContent(title, typeID)
	c.ReleaseDate = &released
	require.NoError(t, repos.Content.Create(context.Background(), c))
	return c
}

func seedUser(t *testing.T, repos *Repositories, email string) *models.User {
	t.Helper()
	ctx := context.Background()
	role, err := repos.Roles.GetByName(ctx, models.RoleUser)
	require.NoError(t, err)
	u := models.NewUser("Test User", email, "hash", nil, role.ID)
	require.NoError(t, repos.Users.Create(ctx, u))
	return u
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestMigrationsSeedRoles(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()

	roles, err := repos.Roles.List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, models.RoleAdmin, roles[0].Name)
	assert.Equal(t, models.RoleUser, roles[1].Name)
}

func TestHealth(t *testing.T) {
	database, _ := setupTestDB(t)
	assert.Equal(t, "sqlite", database.Driver())
	assert.NoError(t, database.Health(context.Background()))
}

func TestMapGormError(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()

	seedGenre(t, repos, "Drama")

	err := repos.Genres.Create(ctx, models.NewGenre("Drama"))
	assert.True(t, IsDuplicate(err))

	_, err = repos.Genres.GetByID(ctx, uuid.New())
	assert.True(t, IsNotFound(err))

	content := models.NewContent("Orphan", uuid.New())
	err = repos.Content.Create(ctx, content)
	assert.True(t, IsForeignKey(err))

	assert.NoError(t, MapGormError(nil))
}

func TestPagination(t *testing.T) {
	t.Run("normalize clamps bounds", func(t *testing.T) {
		assert.Equal(t, Pagination{Page: 0, Size: DefaultPageSize}, Pagination{Page: -3}.Normalize())
		assert.Equal(t, MaxPageSize, Pagination{Size: 1000}.Normalize().Size)
		assert.Equal(t, 40, Pagination{Page: 2, Size: 20}.Offset())
	})

	t.Run("order by whitelist", func(t *testing.T) {
		assert.Equal(t, "title DESC", contentSort.orderBy("title,desc"))
		assert.Equal(t, "release_date ASC", contentSort.orderBy("release_date"))
		assert.Equal(t, "title ASC", contentSort.orderBy("password_hash,desc"))
		assert.Equal(t, "title ASC", contentSort.orderBy(""))
	})

	t.Run("page metadata", func(t *testing.T) {
		page := NewPage([]int{1, 2}, 5, Pagination{Page: 1, Size: 2})
		assert.Equal(t, int64(5), page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 1, page.Page)

		empty := NewPage[int](nil, 0, Pagination{})
		assert.NotNil(t, empty.Items)
		assert.Equal(t, 0, empty.TotalPages)
	})
}

func TestWithTransaction(t *testing.T) {
	database, repos := setupTestDB(t)
	ctx := context.Background()

	t.Run("error rolls back and names the operation", func(t *testing.T) {
		genre := models.NewGenre("Western")
		err := database.WithTransaction(ctx, "seed western", func(tx *gorm.DB) error {
			if err := tx.Create(genre).Error; err != nil {
				return err
			}
			return ErrDuplicate
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.Contains(t, err.Error(), "seed western transaction")

		_, err = repos.Genres.GetByID(ctx, genre.ID)
		assert.True(t, IsNotFound(err))
	})

	t.Run("nil commits", func(t *testing.T) {
		genre := models.NewGenre("Noir")
		require.NoError(t, database.WithTransaction(ctx, "seed noir", func(tx *gorm.DB) error {
			return tx.Create(genre).Error
		}))

		got, err := repos.Genres.GetByID(ctx, genre.ID)
		require.NoError(t, err)
		assert.Equal(t, "Noir", got.Name)
	})
}
