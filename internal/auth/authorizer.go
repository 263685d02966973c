package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/logger"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// Caller is the identity a request acts as
type Caller struct {
	UserID uuid.UUID
	Role   models.RoleName
}

// IsAuthenticated reports whether an identity was resolved
func (c Caller) IsAuthenticated() bool {
	return c.UserID != uuid.Nil
}

// IsAdmin reports whether the caller holds the ADMIN role
func (c Caller) IsAdmin() bool {
	return c.IsAuthenticated() && c.Role == models.RoleAdmin
}

// TokenValidator validates a bearer token and returns its subject
type TokenValidator interface {
	Validate(token string) (uuid.UUID, error)
}

// RoleLookup resolves the role currently held by a user
type RoleLookup interface {
	GetRoleName(ctx context.Context, userID uuid.UUID) (models.RoleName, error)
}

// Authorizer resolves callers from tokens and enforces access rules
type Authorizer struct {
	tokens TokenValidator
	roles  RoleLookup
}

// NewAuthorizer creates a new authorizer
func NewAuthorizer(tokens TokenValidator, roles RoleLookup) *Authorizer {
	return &Authorizer{tokens: tokens, roles: roles}
}

// Anonymous returns the unauthenticated caller
func (a *Authorizer) Anonymous() Caller {
	return Caller{}
}

// Resolve validates a bearer token and loads the caller's role
// A failed role lookup yields USER, never ADMIN
func (a *Authorizer) Resolve(ctx context.Context, bearer string) (Caller, error) {
	userID, err := a.tokens.Validate(bearer)
	if err != nil {
		return Caller{}, err
	}

	role, err := a.roles.GetRoleName(ctx, userID)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Role lookup failed, defaulting caller to USER")
		role = models.RoleUser
	}

	return Caller{UserID: userID, Role: role}, nil
}

// RequireAuthenticated denies callers without a resolved identity
func (a *Authorizer) RequireAuthenticated(caller Caller) error {
	if !caller.IsAuthenticated() {
		return apperr.AccessDenied("authentication is required")
	}
	return nil
}

// RequireAdmin denies callers that are not ADMIN
func (a *Authorizer) RequireAdmin(caller Caller) error {
	if err := a.RequireAuthenticated(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return apperr.AccessDenied("admin role is required")
	}
	return nil
}

// RequireSelfOrAdmin denies callers acting on another user's data unless they are ADMIN
func (a *Authorizer) RequireSelfOrAdmin(caller Caller, targetUserID uuid.UUID) error {
	if err := a.RequireAuthenticated(caller); err != nil {
		return err
	}
	if caller.UserID == targetUserID || caller.IsAdmin() {
		return nil
	}
	return apperr.AccessDenied("access denied: you can only access your own data")
}
