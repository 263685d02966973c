package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/reelhouse/internal/catalog"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/middleware"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// NameRequest carries the single name field of genres, content types and roles
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

// GenreHandler handles genre-related HTTP requests
type GenreHandler struct {
	genres *catalog.GenreService
}

// NewGenreHandler creates a new genre handler instance
func NewGenreHandler(genres *catalog.GenreService) *GenreHandler {
	return &GenreHandler{genres: genres}
}

// Create handles POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req NameRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	genre, err := h.genres.Create(ctx, middleware.CallerFrom(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toGenreResponse(genre))
}

// Get handles GET /api/v1/genres/:id
func (h *GenreHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	genre, err := h.genres.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGenreResponse(genre))
}

// GetByName handles GET /api/v1/genres/by-name/:name
func (h *GenreHandler) GetByName(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	genre, err := h.genres.GetByName(ctx, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGenreResponse(genre))
}

// List handles GET /api/v1/genres
func (h *GenreHandler) List(c *gin.Context) {
	respondPage(c, h.genres.List, toGenreResponse)
}

// Popular handles GET /api/v1/genres/popular
func (h *GenreHandler) Popular(c *gin.Context) {
	respondPage(c, h.genres.Popular, toGenreResponse)
}

// Search handles GET /api/v1/genres/search?name=
func (h *GenreHandler) Search(c *gin.Context) {
	name, ok := stringQuery(c, "name")
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Genre], error) {
		return h.genres.Search(ctx, name, p)
	}, toGenreResponse)
}

// ListByContent handles GET /api/v1/genres/by-content/:contentId
func (h *GenreHandler) ListByContent(c *gin.Context) {
	contentID, ok := uuidParam(c, "contentId")
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Genre], error) {
		return h.genres.ListByContent(ctx, contentID, p)
	}, toGenreResponse)
}

// Rename handles PUT /api/v1/genres/:id
func (h *GenreHandler) Rename(c *gin.Context) {
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

	genre, err := h.genres.Rename(ctx, middleware.CallerFrom(c), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGenreResponse(genre))
}

// Delete handles DELETE /api/v1/genres/:id
func (h *GenreHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.genres.Delete(ctx, middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Content handles GET /api/v1/genres/:id/content
func (h *GenreHandler) Content(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return h.genres.ContentFor(ctx, id, p)
	}, toContentResponse)
}

// ContentByName handles GET /api/v1/genres/by-name/:name/content
func (h *GenreHandler) ContentByName(c *gin.Context) {
	name := c.Param("name")
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return h.genres.ContentForName(ctx, name, p)
	}, toContentResponse)
}

// CountContent handles GET /api/v1/genres/:id/content/count
func (h *GenreHandler) CountContent(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.genres.CountContent(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// SetupGenreRoutes registers genre routes; mutations require an authenticated caller
func SetupGenreRoutes(group *gin.RouterGroup, genres *catalog.GenreService) {
	handler := NewGenreHandler(genres)

	g := group.Group("/genres")
	g.GET("", handler.List)
	g.GET("/popular", handler.Popular)
	g.GET("/search", handler.Search)
	g.GET("/by-name/:name", handler.GetByName)
	g.GET("/by-name/:name/content", handler.ContentByName)
	g.GET("/by-content/:contentId", handler.ListByContent)
	g.GET("/:id", handler.Get)
	g.GET("/:id/content", handler.Content)
	g.GET("/:id/content/count", handler.CountContent)

	authed := g.Group("", middleware.RequireAuthenticated())
	authed.POST("", handler.Create)
	authed.PUT("/:id", handler.Rename)
	authed.DELETE("/:id", handler.Delete)
}
