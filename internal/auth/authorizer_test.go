package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

type stubRoles map[uuid.UUID]models.RoleName

func (s stubRoles) GetRoleName(_ context.Context, userID uuid.UUID) (models.RoleName, error) {
	role, ok := s[userID]
	if !ok {
		return "", errors.New("user not found")
	}
	return role, nil
}

func TestResolve(t *testing.T) {
	now := time.Now()
	tokens := newTestTokenService(t, now)
	admin, user, ghost := uuid.New(), uuid.New(), uuid.New()
	authz := NewAuthorizer(tokens, stubRoles{admin: models.RoleAdmin, user: models.RoleUser})
	ctx := context.Background()

	t.Run("admin token resolves to admin", func(t *testing.T) {
		token, err := tokens.Issue(admin)
		require.NoError(t, err)
		caller, err := authz.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, admin, caller.UserID)
		assert.True(t, caller.IsAdmin())
	})

	t.Run("unknown user defaults to USER", func(t *testing.T) {
		token, err := tokens.Issue(ghost)
		require.NoError(t, err)
		caller, err := authz.Resolve(ctx, token)
		require.NoError(t, err)
		assert.True(t, caller.IsAuthenticated())
		assert.Equal(t, models.RoleUser, caller.Role)
		assert.False(t, caller.IsAdmin())
	})

	t.Run("invalid token fails", func(t *testing.T) {
		_, err := authz.Resolve(ctx, "garbage")
		assert.True(t, errors.Is(err, apperr.ErrInvalidToken))
	})

	t.Run("anonymous is unauthenticated", func(t *testing.T) {
		assert.False(t, authz.Anonymous().IsAuthenticated())
		assert.False(t, authz.Anonymous().IsAdmin())
	})
}

func TestRequireSelfOrAdmin(t *testing.T) {
	authz := NewAuthorizer(nil, nil)
	alice, bob := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		caller  Caller
		target  uuid.UUID
		allowed bool
	}{
		{name: "anonymous", caller: Caller{}, target: alice, allowed: false},
		{name: "self as user", caller: Caller{UserID: alice, Role: models.RoleUser}, target: alice, allowed: true},
		{name: "other as user", caller: Caller{UserID: alice, Role: models.RoleUser}, target: bob, allowed: false},
		{name: "self as admin", caller: Caller{UserID: alice, Role: models.RoleAdmin}, target: alice, allowed: true},
		{name: "other as admin", caller: Caller{UserID: alice, Role: models.RoleAdmin}, target: bob, allowed: true},
		{name: "anonymous with admin role", caller: Caller{Role: models.RoleAdmin}, target: bob, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.RequireSelfOrAdmin(tt.caller, tt.target)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
		})
	}
}

func TestRequireAdminAndAuthenticated(t *testing.T) {
	authz := NewAuthorizer(nil, nil)
	user := Caller{UserID: uuid.New(), Role: models.RoleUser}
	admin := Caller{UserID: uuid.New(), Role: models.RoleAdmin}

	assert.NoError(t, authz.RequireAdmin(admin))
	assert.True(t, errors.Is(authz.RequireAdmin(user), apperr.ErrAccessDenied))
	assert.True(t, errors.Is(authz.RequireAdmin(Caller{}), apperr.ErrAccessDenied))

	assert.NoError(t, authz.RequireAuthenticated(user))
	assert.True(t, errors.Is(authz.RequireAuthenticated(Caller{}), apperr.ErrAccessDenied))
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, hasher.Verify(hash, "correct horse battery staple"))
	assert.False(t, hasher.Verify(hash, "wrong password"))
	assert.False(t, hasher.Verify("not-a-hash", "anything"))
}
