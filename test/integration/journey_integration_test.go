//go:build integration
// +build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/reelhouse/internal/api"
)

func TestViewerJourney(t *testing.T) {
	env := setupTestEnv(t)

	admin := env.register(t, "Ada Admin", "ada@example.com")
	env.promote(t, admin.User.ID)
	alice := env.register(t, "Alice Example", "alice@example.com")
	bob := env.register(t, "Bob Example", "bob@example.com")

	var series, drama api.NamedResponse
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/content-types", admin.Token, api.NameRequest{Name: "Series"}, &series))
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/genres", admin.Token, api.NameRequest{Name: "Drama"}, &drama))

	var show api.ContentResponse
	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/content", admin.Token, api.ContentRequest{
		Title:         "Show A",
		ContentTypeID: series.ID,
		GenreIDs:      []string{drama.ID},
	}, &show))

	t.Run("catalog is public", func(t *testing.T) {
		var page api.PageResponse[api.ContentResponse]
		require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/content/filter?type=Series&genre=Drama", "", nil, &page))
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Series", page.Items[0].ContentTypeName)
	})

	t.Run("watchlist belongs to its owner", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/users/"+alice.User.ID+"/watchlist?contentId="+show.ID, alice.Token, nil, nil))
		assert.Equal(t, http.StatusForbidden, env.call(t, http.MethodGet, "/watchlist/user/"+alice.User.ID, bob.Token, nil, nil))

		var page api.PageResponse[api.WatchlistEntryResponse]
		require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/watchlist/user/"+alice.User.ID, alice.Token, nil, &page))
		require.Len(t, page.Items, 1)
		assert.Equal(t, show.ID, page.Items[0].ContentID)
	})

	t.Run("content type in use cannot be deleted", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, env.call(t, http.MethodDelete, "/content-types/"+series.ID, admin.Token, nil, nil))
	})

	t.Run("password change invalidates the old password", func(t *testing.T) {
		status := env.call(t, http.MethodPost, "/users/"+bob.User.ID+"/password", bob.Token, api.ChangePasswordRequest{
			OldPassword: "correct-horse",
			NewPassword: "battery-staple",
		}, nil)
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodPost, "/auth/login", "", api.LoginRequest{Email: "bob@example.com", Password: "correct-horse"}, nil))
		assert.Equal(t, http.StatusOK, env.call(t, http.MethodPost, "/auth/login", "", api.LoginRequest{Email: "bob@example.com", Password: "battery-staple"}, nil))
	})

	t.Run("deleted user is gone for its own token", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, env.call(t, http.MethodDelete, "/users/"+bob.User.ID, admin.Token, nil, nil))
		assert.Equal(t, http.StatusNotFound, env.call(t, http.MethodGet, "/users/"+bob.User.ID, bob.Token, nil, nil))
	})
}
