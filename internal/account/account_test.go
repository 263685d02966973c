package account

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/config"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

type testEnv struct {
	repos  *db.Repositories
	tokens *auth.TokenService
	auth   *AuthService
	users  *UserService
	roles  *RoleService
}

var admin = auth.Caller{UserID: uuid.New(), Role: models.RoleAdmin}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate("file://../../migrations"))

	tokens, err := auth.NewTokenService(config.AuthConfig{
		Secret:   "0123456789abcdef0123456789abcdef",
		Issuer:   "reelhouse",
		Audience: "reelhouse-api",
		TokenTTL: time.Hour,
	})
	require.NoError(t, err)

	repos := db.NewRepositories(database)
	hasher := auth.NewBcryptHasher(4)
	authz := auth.NewAuthorizer(tokens, repos.Users)
	return &testEnv{
		repos:  repos,
		tokens: tokens,
		auth:   NewAuthService(repos, hasher, tokens),
		users:  NewUserService(repos, authz, hasher),
		roles:  NewRoleService(repos, authz),
	}
}

func register(t *testing.T, env *testEnv, name, email string) *Session {
	t.Helper()
	session, err := env.auth.Register(context.Background(), Registration{
		FullName: name,
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return session
}

func callerOf(u *models.User) auth.Caller {
	return auth.Caller{UserID: u.ID, Role: u.Role.Name}
}

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	session := register(t, env, "Alice Example", "  Alice@Example.com ")
	assert.Equal(t, "alice@example.com", session.User.Email)
	require.NotNil(t, session.User.Role)
	assert.Equal(t, models.RoleUser, session.User.Role.Name)

	subject, err := env.tokens.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, subject)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, Registration{FullName: "Alice Again", Email: "ALICE@example.com", Password: "another-pass"})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("short password", func(t *testing.T) {
		_, err := env.auth.Register(ctx, Registration{FullName: "Bob", Email: "bob@example.com", Password: "short"})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("login", func(t *testing.T) {
		s, err := env.auth.Login(ctx, "alice@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, session.User.ID, s.User.ID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, err := env.auth.Login(ctx, "alice@example.com", "wrong-horse")
		require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
		assert.Equal(t, "Invalid email or password", apperr.MessageOf(err))

		_, err = env.auth.Login(ctx, "nobody@example.com", "correct-horse")
		require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
		assert.Equal(t, "Invalid email or password", apperr.MessageOf(err))
	})

	t.Run("email taken", func(t *testing.T) {
		taken, err := env.auth.EmailTaken(ctx, "Alice@example.com")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = env.auth.EmailTaken(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func TestRegisterRecreatesMissingUserRole(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	role, err := env.repos.Roles.GetByName(ctx, models.RoleUser)
	require.NoError(t, err)
	require.NoError(t, env.repos.Roles.Delete(ctx, role.ID))

	session := register(t, env, "Dana Example", "dana@example.com")
	assert.Equal(t, models.RoleUser, session.User.Role.Name)
	assert.NotEqual(t, role.ID, session.User.RoleID)
}

func TestUserServiceSelfOrAdmin(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "Alice Example", "alice@example.com").User
	bob := register(t, env, "Bob Example", "bob@example.com").User

	got, err := env.users.Get(ctx, callerOf(alice), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = env.users.Get(ctx, callerOf(bob), alice.ID)
	require.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))
	assert.Equal(t, "access denied: you can only access your own data", apperr.MessageOf(err))

	_, err = env.users.Get(ctx, admin, alice.ID)
	assert.NoError(t, err)

	_, err = env.users.List(ctx, callerOf(alice), db.Pagination{})
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))

	page, err := env.users.List(ctx, admin, db.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestUserServiceUpdate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "Alice Example", "alice@example.com").User
	register(t, env, "Bob Example", "bob@example.com")

	country := "Serbia"
	updated, err := env.users.Update(ctx, callerOf(alice), alice.ID, Profile{
		FullName: "Alice Updated",
		Email:    "alice@example.com",
		Country:  &country,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", updated.FullName)
	require.NotNil(t, updated.Country)
	assert.Equal(t, "Serbia", *updated.Country)

	_, err = env.users.Update(ctx, callerOf(alice), alice.ID, Profile{FullName: "Alice", Email: "bob@example.com"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = env.users.Update(ctx, callerOf(alice), alice.ID, Profile{FullName: "Alice", Email: "not-an-email"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	page, err := env.users.ListByCountry(ctx, admin, "Serbia", db.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestUserServiceChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "Alice Example", "alice@example.com").User

	_, err := env.users.ChangePassword(ctx, callerOf(alice), alice.ID, "wrong-horse", "new-password")
	require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	assert.Equal(t, "Invalid old password", apperr.MessageOf(err))

	_, err = env.users.ChangePassword(ctx, callerOf(alice), alice.ID, "correct-horse", "short")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.users.ChangePassword(ctx, callerOf(alice), alice.ID, "correct-horse", "new-password")
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "alice@example.com", "correct-horse")
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	_, err = env.auth.Login(ctx, "alice@example.com", "new-password")
	assert.NoError(t, err)
}

func TestUserServiceAssignRoleAndListByRole(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "Alice Example", "alice@example.com").User

	adminRole, err := env.roles.GetByName(ctx, admin, "admin")
	require.NoError(t, err)

	_, err = env.users.AssignRole(ctx, callerOf(alice), alice.ID, adminRole.ID)
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))

	_, err = env.users.AssignRole(ctx, admin, alice.ID, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	promoted, err := env.users.AssignRole(ctx, admin, alice.ID, adminRole.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	page, err := env.users.ListByRole(ctx, admin, "Admin", db.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = env.users.ListByRole(ctx, admin, "SUPERUSER", db.Pagination{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUserServiceCreateAndDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user, err := env.users.Create(ctx, admin, Registration{FullName: "Erin Example", Email: "erin@example.com", Password: "erin-password"})
	require.NoError(t, err)

	require.NoError(t, env.users.Delete(ctx, admin, user.ID))
	err = env.users.Delete(ctx, admin, user.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRoleService(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := register(t, env, "Alice Example", "alice@example.com").User

	roles, err := env.roles.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	_, err = env.roles.List(ctx, callerOf(alice))
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))

	_, err = env.roles.Create(ctx, admin, "user")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = env.roles.Create(ctx, admin, "moderator")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = env.roles.Delete(ctx, admin, alice.RoleID)
	require.Equal(t, apperr.KindBusinessRuleViolation, apperr.KindOf(err))
	assert.Equal(t, "Cannot delete user role. 1 users are assigned this role.", apperr.MessageOf(err))

	count, err := env.roles.CountUsers(ctx, admin, alice.RoleID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	adminRole, err := env.roles.GetByName(ctx, admin, "ADMIN")
	require.NoError(t, err)
	require.NoError(t, env.roles.Delete(ctx, admin, adminRole.ID))

	created, err := env.roles.Create(ctx, admin, "Admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Name)

	_, err = env.roles.Rename(ctx, admin, created.ID, "user")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
