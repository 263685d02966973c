package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/reelhouse/internal/account"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/middleware"
	"github.com/stwalsh4118/reelhouse/internal/models"
	"github.com/stwalsh4118/reelhouse/internal/watchlist"
)

// CreateUserRequest represents an admin request to create a user
type CreateUserRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Country  *string `json:"country,omitempty"`
}

// UpdateUserRequest represents a profile update
type UpdateUserRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Country  *string `json:"country,omitempty"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// PresenceResponse answers a membership check
type PresenceResponse struct {
	Present bool `json:"present"`
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	users     *account.UserService
	watchlist *watchlist.Service
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(users *account.UserService, lists *watchlist.Service) *UserHandler {
	return &UserHandler{users: users, watchlist: lists}
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.users.Create(ctx, middleware.CallerFrom(c), account.Registration{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Country:  req.Country,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Get handles GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.users.Get(ctx, middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// List handles GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.User], error) {
		return h.users.List(ctx, caller, p)
	}, toUserResponse)
}

// Search handles GET /api/v1/users/search?name=
func (h *UserHandler) Search(c *gin.Context) {
	h.byQuery(c, "name", h.users.Search)
}

// ListByCountry handles GET /api/v1/users/by-country?country=
func (h *UserHandler) ListByCountry(c *gin.Context) {
	h.byQuery(c, "country", h.users.ListByCountry)
}

// ListByRole handles GET /api/v1/users/by-role?role=
func (h *UserHandler) ListByRole(c *gin.Context) {
	h.byQuery(c, "role", h.users.ListByRole)
}

// Update handles PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.users.Update(ctx, middleware.CallerFrom(c), id, account.Profile{
		FullName: req.FullName,
		Email:    req.Email,
		Country:  req.Country,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.users.Delete(ctx, middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangePassword handles POST /api/v1/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.users.ChangePassword(ctx, middleware.CallerFrom(c), id, req.OldPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// AssignRole handles POST /api/v1/users/:id/assign-role?roleId=
func (h *UserHandler) AssignRole(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	roleID, ok := uuidQuery(c, "roleId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.users.AssignRole(ctx, middleware.CallerFrom(c), id, roleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Recommendations handles GET /api/v1/users/:id/recommendations
func (h *UserHandler) Recommendations(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return h.users.Recommendations(ctx, caller, id, p)
	}, toContentResponse)
}

// Watchlist handles GET /api/v1/users/:id/watchlist
func (h *UserHandler) Watchlist(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return h.watchlist.ContentByUser(ctx, caller, id, p)
	}, toContentResponse)
}

// AddToWatchlist handles POST /api/v1/users/:id/watchlist?contentId=
func (h *UserHandler) AddToWatchlist(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	contentID, ok := uuidQuery(c, "contentId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.watchlist.Add(ctx, middleware.CallerFrom(c), id, contentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Content added to watchlist"})
}

// RemoveFromWatchlist handles DELETE /api/v1/users/:id/watchlist/:contentId
func (h *UserHandler) RemoveFromWatchlist(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	contentID, ok := uuidParam(c, "contentId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.watchlist.Remove(ctx, middleware.CallerFrom(c), id, contentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckWatchlist handles GET /api/v1/users/:id/watchlist/check?contentId=
func (h *UserHandler) CheckWatchlist(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	contentID, ok := uuidQuery(c, "contentId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	present, err := h.watchlist.IsPresent(ctx, middleware.CallerFrom(c), id, contentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PresenceResponse{Present: present})
}

func (h *UserHandler) byQuery(c *gin.Context, name string, fetch func(context.Context, auth.Caller, string, db.Pagination) (*db.Page[*models.User], error)) {
	value, ok := stringQuery(c, name)
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.User], error) {
		return fetch(ctx, caller, value, p)
	}, toUserResponse)
}

// SetupUserRoutes registers user routes; every route requires an authenticated caller
func SetupUserRoutes(group *gin.RouterGroup, users *account.UserService, lists *watchlist.Service) {
	handler := NewUserHandler(users, lists)

	u := group.Group("/users", middleware.RequireAuthenticated())
	u.POST("", handler.Create)
	u.GET("", handler.List)
	u.GET("/search", handler.Search)
	u.GET("/by-country", handler.ListByCountry)
	u.GET("/by-role", handler.ListByRole)
	u.GET("/:id", handler.Get)
	u.PUT("/:id", handler.Update)
	u.DELETE("/:id", handler.Delete)
	u.POST("/:id/password", handler.ChangePassword)
	u.POST("/:id/assign-role", handler.AssignRole)
	u.GET("/:id/recommendations", handler.Recommendations)
	u.GET("/:id/watchlist", handler.Watchlist)
	u.POST("/:id/watchlist", handler.AddToWatchlist)
	u.GET("/:id/watchlist/check", handler.CheckWatchlist)
	u.DELETE("/:id/watchlist/:contentId", handler.RemoveFromWatchlist)
}
