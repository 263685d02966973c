package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

func TestEpisodeNavigation(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()

	series := seedContentType(t, repos, "Series")
	show := seedContent(t, repos, "Show A", series.ID, date(2020, 1, 1))

	// Season 2 is intentionally absent
	layout := [][2]int{{1, 1}, {1, 2}, {1, 3}, {3, 1}, {3, 2}}
	episodes := make(map[[2]int]*models.Episode)
	for _, se := range layout {
		ep := models.NewEpisode(show.ID, se[0], se[1], "Episode")
		require.NoError(t, repos.Episodes.Create(ctx, ep))
		episodes[se] = ep
	}

	t.Run("next within season", func(t *testing.T) {
		next, err := repos.Episodes.Next(ctx, episodes[[2]int{1, 1}])
		require.NoError(t, err)
		assert.Equal(t, episodes[[2]int{1, 2}].ID, next.ID)
	})

	t.Run("next skips to first episode of the next populated season", func(t *testing.T) {
		next, err := repos.Episodes.Next(ctx, episodes[[2]int{1, 3}])
		require.NoError(t, err)
		assert.Equal(t, episodes[[2]int{3, 1}].ID, next.ID)
	})

	t.Run("previous falls back to last episode of the previous populated season", func(t *testing.T) {
		prev, err := repos.Episodes.Previous(ctx, episodes[[2]int{3, 1}])
		require.NoError(t, err)
		assert.Equal(t, episodes[[2]int{1, 3}].ID, prev.ID)
	})

	t.Run("next and previous are inverses", func(t *testing.T) {
		for _, se := range layout[:len(layout)-1] {
			next, err := repos.Episodes.Next(ctx, episodes[se])
			require.NoError(t, err)
			back, err := repos.Episodes.Previous(ctx, next)
			require.NoError(t, err)
			assert.Equal(t, episodes[se].ID, back.ID)
		}
	})

	t.Run("ends have no neighbour", func(t *testing.T) {
		_, err := repos.Episodes.Next(ctx, episodes[[2]int{3, 2}])
		assert.True(t, IsNotFound(err))
		_, err = repos.Episodes.Previous(ctx, episodes[[2]int{1, 1}])
		assert.True(t, IsNotFound(err))
	})

	t.Run("seasons are distinct and ascending", func(t *testing.T) {
		seasons, err := repos.Episodes.Seasons(ctx, show.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, seasons)
	})

	t.Run("listing is ordered by season then episode", func(t *testing.T) {
		page, err := repos.Episodes.ListByContent(ctx, show.ID, Pagination{})
		require.NoError(t, err)
		require.Len(t, page.Items, len(layout))
		for i, se := range layout {
			assert.Equal(t, episodes[se].ID, page.Items[i].ID)
		}

		season, err := repos.Episodes.ListBySeason(ctx, show.ID, 3, Pagination{})
		require.NoError(t, err)
		assert.Len(t, season.Items, 2)

		count, err := repos.Episodes.CountBySeason(ctx, show.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("numbers are unique per content", func(t *testing.T) {
		err := repos.Episodes.Create(ctx, models.NewEpisode(show.ID, 1, 1, "Duplicate"))
		assert.True(t, IsDuplicate(err))

		taken, err := repos.Episodes.ExistsByNumber(ctx, show.ID, 1, 1, episodes[[2]int{1, 1}].ID)
		require.NoError(t, err)
		assert.False(t, taken)

		taken, err = repos.Episodes.ExistsByNumber(ctx, show.ID, 1, 1, episodes[[2]int{1, 2}].ID)
		require.NoError(t, err)
		assert.True(t, taken)
	})
}
