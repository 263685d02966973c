package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/reelhouse/internal/account"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/middleware"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// RoleHandler handles user-role HTTP requests
type RoleHandler struct {
	roles *account.RoleService
}

// NewRoleHandler creates a new role handler instance
func NewRoleHandler(roles *account.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// Create handles POST /api/v1/user-roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req NameRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.roles.Create(ctx, middleware.CallerFrom(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRoleResponse(role))
}

// List handles GET /api/v1/user-roles
func (h *RoleHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	roles, err := h.roles.List(ctx, middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]*RoleResponse, len(roles))
	for i, role := range roles {
		resp[i] = toRoleResponse(role)
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/v1/user-roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.roles.Get(ctx, middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoleResponse(role))
}

// GetByName handles GET /api/v1/user-roles/by-name/:name
func (h *RoleHandler) GetByName(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.roles.GetByName(ctx, middleware.CallerFrom(c), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoleResponse(role))
}

// Rename handles PUT /api/v1/user-roles/:id
func (h *RoleHandler) Rename(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req NameRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.roles.Rename(ctx, middleware.CallerFrom(c), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoleResponse(role))
}

// Delete handles DELETE /api/v1/user-roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.roles.Delete(ctx, middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Users handles GET /api/v1/user-roles/:id/users
func (h *RoleHandler) Users(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.User], error) {
		return h.roles.Users(ctx, caller, id, p)
	}, toUserResponse)
}

// CountUsers handles GET /api/v1/user-roles/:id/users/count
func (h *RoleHandler) CountUsers(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.roles.CountUsers(ctx, middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// SetupRoleRoutes registers user-role routes; every route requires an authenticated caller
func SetupRoleRoutes(group *gin.RouterGroup, roles *account.RoleService) {
	handler := NewRoleHandler(roles)

	r := group.Group("/user-roles", middleware.RequireAuthenticated())
	r.POST("", handler.Create)
	r.GET("", handler.List)
	r.GET("/by-name/:name", handler.GetByName)
	r.GET("/:id", handler.Get)
	r.PUT("/:id", handler.Rename)
	r.DELETE("/:id", handler.Delete)
	r.GET("/:id/users", handler.Users)
	r.GET("/:id/users/count", handler.CountUsers)
}
