package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleName(t *testing.T) {
	tests := []struct {
		input   string
		want    RoleName
		wantErr bool
	}{
		{input: "USER", want: RoleUser},
		{input: "admin", want: RoleAdmin},
		{input: " Admin ", want: RoleAdmin},
		{input: "superuser", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRoleName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid content", func(t *testing.T) {
		content := NewContent("Inception", uuid.New())
		assert.NoError(t, Validate(content))
	})

	t.Run("content without title", func(t *testing.T) {
		content := NewContent("", uuid.New())
		assert.Error(t, Validate(content))
	})

	t.Run("content without type", func(t *testing.T) {
		content := NewContent("Inception", uuid.Nil)
		assert.Error(t, Validate(content))
	})

	t.Run("content with malformed thumbnail url", func(t *testing.T) {
		content := NewContent("Inception", uuid.New())
		bad := "not a url"
		content.ThumbnailURL = &bad
		assert.Error(t, Validate(content))
	})

	t.Run("episode numbers must be positive", func(t *testing.T) {
		episode := NewEpisode(uuid.New(), 0, 1, "Pilot")
		assert.Error(t, Validate(episode))

		episode = NewEpisode(uuid.New(), 1, 1, "Pilot")
		assert.NoError(t, Validate(episode))
	})

	t.Run("user email must be valid", func(t *testing.T) {
		user := NewUser("Alice Smith", "not-an-email", "hash", nil, uuid.New())
		assert.Error(t, Validate(user))

		user.Email = "alice@example.com"
		assert.NoError(t, Validate(user))
	})

	t.Run("role name must be known", func(t *testing.T) {
		assert.NoError(t, Validate(NewRole(RoleAdmin)))
		assert.Error(t, Validate(NewRole(RoleName("OWNER"))))
	})
}

func TestNewContentDefaults(t *testing.T) {
	typeID := uuid.New()
	content := NewContent("Inception", typeID)

	assert.NotEqual(t, uuid.Nil, content.ID)
	assert.True(t, content.IsAvailable)
	assert.Equal(t, typeID, content.ContentTypeID)
	assert.Equal(t, content.CreatedAt, content.UpdatedAt)
}

func TestValidationMessage(t *testing.T) {
	err := Validate(NewEpisode(uuid.New(), 0, 1, ""))
	require.Error(t, err)

	msg := ValidationMessage(err)
	assert.Contains(t, msg, "SeasonNumber failed required")
	assert.Contains(t, msg, "Title failed required")
}
