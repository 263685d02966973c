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

// ContentTypeHandler handles content-type-related HTTP requests
type ContentTypeHandler struct {
	types *catalog.ContentTypeService
}

// NewContentTypeHandler creates a new content type handler instance
func NewContentTypeHandler(types *catalog.ContentTypeService) *ContentTypeHandler {
	return &ContentTypeHandler{types: types}
}

// Create handles POST /api/v1/content-types
func (h *ContentTypeHandler) Create(c *gin.Context) {
	var req NameRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	contentType, err := h.types.Create(ctx, middleware.CallerFrom(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toContentTypeResponse(contentType))
}

// Get handles GET /api/v1/content-types/:id
func (h *ContentTypeHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	contentType, err := h.types.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentTypeResponse(contentType))
}

// GetByName handles GET /api/v1/content-types/by-name/:name
func (h *ContentTypeHandler) GetByName(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	contentType, err := h.types.GetByName(ctx, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentTypeResponse(contentType))
}

// List handles GET /api/v1/content-types
func (h *ContentTypeHandler) List(c *gin.Context) {
	respondPage(c, h.types.List, toContentTypeResponse)
}

// Popular handles GET /api/v1/content-types/popular
func (h *ContentTypeHandler) Popular(c *gin.Context) {
	respondPage(c, h.types.Popular, toContentTypeResponse)
}

// Search handles GET /api/v1/content-types/search?name=
func (h *ContentTypeHandler) Search(c *gin.Context) {
	name, ok := stringQuery(c, "name")
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.ContentType], error) {
		return h.types.Search(ctx, name, p)
	}, toContentTypeResponse)
}

// Rename handles PUT /api/v1/content-types/:id
func (h *ContentTypeHandler) Rename(c *gin.Context) {
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

	contentType, err := h.types.Rename(ctx, middleware.CallerFrom(c), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentTypeResponse(contentType))
}

// Delete handles DELETE /api/v1/content-types/:id
func (h *ContentTypeHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.types.Delete(ctx, middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Content handles GET /api/v1/content-types/:id/content
func (h *ContentTypeHandler) Content(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return h.types.ContentFor(ctx, id, p)
	}, toContentResponse)
}

// ContentByName handles GET /api/v1/content-types/by-name/:name/content
func (h *ContentTypeHandler) ContentByName(c *gin.Context) {
	name := c.Param("name")
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return h.types.ContentForName(ctx, name, p)
	}, toContentResponse)
}

// CountContent handles GET /api/v1/content-types/:id/content/count
func (h *ContentTypeHandler) CountContent(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.types.CountContent(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// SetupContentTypeRoutes registers content type routes; mutations require an authenticated caller
func SetupContentTypeRoutes(group *gin.RouterGroup, types *catalog.ContentTypeService) {
	handler := NewContentTypeHandler(types)

	ct := group.Group("/content-types")
	ct.GET("", handler.List)
	ct.GET("/popular", handler.Popular)
	ct.GET("/search", handler.Search)
	ct.GET("/by-name/:name", handler.GetByName)
	ct.GET("/by-name/:name/content", handler.ContentByName)
	ct.GET("/:id", handler.Get)
	ct.GET("/:id/content", handler.Content)
	ct.GET("/:id/content/count", handler.CountContent)

	authed := ct.Group("", middleware.RequireAuthenticated())
	authed.POST("", handler.Create)
	authed.PUT("/:id", handler.Rename)
	authed.DELETE("/:id", handler.Delete)
}
