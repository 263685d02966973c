package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/catalog"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/middleware"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// ContentRequest represents a request to create or replace a content item
type ContentRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   *string  `json:"description,omitempty"`
	ReleaseDate   *string  `json:"release_date,omitempty"`
	Duration      *string  `json:"duration,omitempty"`
	Language      *string  `json:"language,omitempty"`
	ThumbnailURL  *string  `json:"thumbnail_url,omitempty"`
	VideoURL      *string  `json:"video_url,omitempty"`
	IsAvailable   *bool    `json:"is_available,omitempty"`
	ContentTypeID string   `json:"content_type_id" binding:"required"`
	GenreIDs      []string `json:"genre_ids,omitempty"`
}

// ReplaceGenresRequest represents a bulk genre replacement
type ReplaceGenresRequest struct {
	GenreIDs []string `json:"genre_ids"`
}

// toInput validates the request shape and converts it for the service
func (r *ContentRequest) toInput() (catalog.ContentInput, string) {
	typeID, err := uuid.Parse(r.ContentTypeID)
	if err != nil {
		return catalog.ContentInput{}, "Invalid content_type_id format"
	}
	releaseDate, err := parseDate(r.ReleaseDate)
	if err != nil {
		return catalog.ContentInput{}, "Invalid release_date: expected YYYY-MM-DD"
	}
	genreIDs, msg := parseUUIDs(r.GenreIDs, "genre_ids")
	if msg != "" {
		return catalog.ContentInput{}, msg
	}
	return catalog.ContentInput{
		Title:         r.Title,
		Description:   r.Description,
		ReleaseDate:   releaseDate,
		Duration:      r.Duration,
		Language:      r.Language,
		ThumbnailURL:  r.ThumbnailURL,
		VideoURL:      r.VideoURL,
		IsAvailable:   r.IsAvailable,
		ContentTypeID: typeID,
		GenreIDs:      genreIDs,
	}, ""
}

func parseUUIDs(raw []string, field string) ([]uuid.UUID, string) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, "Invalid " + field + ": '" + s + "' is not a UUID"
		}
		ids = append(ids, id)
	}
	return ids, ""
}

// ContentHandler handles content, content-genre and content-episode requests
type ContentHandler struct {
	content       *catalog.ContentService
	contentGenres *catalog.ContentGenreService
	genres        *catalog.GenreService
	episodes      *catalog.EpisodeService
}

// NewContentHandler creates a new content handler instance
func NewContentHandler(content *catalog.ContentService, contentGenres *catalog.ContentGenreService, genres *catalog.GenreService, episodes *catalog.EpisodeService) *ContentHandler {
	return &ContentHandler{content: content, contentGenres: contentGenres, genres: genres, episodes: episodes}
}

// Create handles POST /api/v1/content
func (h *ContentHandler) Create(c *gin.Context) {
	var req ContentRequest
	if !bindJSON(c, &req) {
		return
	}
	in, msg := req.toInput()
	if msg != "" {
		badRequest(c, msg)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	content, err := h.content.Create(ctx, middleware.CallerFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toContentResponse(content))
}

// Get handles GET /api/v1/content/:id
func (h *ContentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	content, err := h.content.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentResponse(content))
}

// Update handles PUT /api/v1/content/:id
func (h *ContentHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req ContentRequest
	if !bindJSON(c, &req) {
		return
	}
	in, msg := req.toInput()
	if msg != "" {
		badRequest(c, msg)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	content, err := h.content.Update(ctx, middleware.CallerFrom(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentResponse(content))
}

// Delete handles DELETE /api/v1/content/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.content.Delete(ctx, middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleAvailability handles PATCH /api/v1/content/:id/toggle-availability
func (h *ContentHandler) ToggleAvailability(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	content, err := h.content.ToggleAvailability(ctx, middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentResponse(content))
}

// List handles GET /api/v1/content
func (h *ContentHandler) List(c *gin.Context) {
	respondPage(c, h.content.List, toContentResponse)
}

// ListAvailable handles GET /api/v1/content/available
func (h *ContentHandler) ListAvailable(c *gin.Context) {
	respondPage(c, h.content.ListAvailable, toContentResponse)
}

// ListRecent handles GET /api/v1/content/recent
func (h *ContentHandler) ListRecent(c *gin.Context) {
	respondPage(c, h.content.ListRecent, toContentResponse)
}

// Popular handles GET /api/v1/content/popular
func (h *ContentHandler) Popular(c *gin.Context) {
	respondPage(c, h.content.Popular, toContentResponse)
}

// Recommendations handles GET /api/v1/content/recommendations
func (h *ContentHandler) Recommendations(c *gin.Context) {
	respondPage(c, h.content.Recommendations, toContentResponse)
}

// Search handles GET /api/v1/content/search?title=
func (h *ContentHandler) Search(c *gin.Context) {
	h.byQuery(c, "title", h.content.SearchByTitle)
}

// ListByType handles GET /api/v1/content/by-type?type=
func (h *ContentHandler) ListByType(c *gin.Context) {
	h.byQuery(c, "type", h.content.ListByTypeName)
}

// ListByGenre handles GET /api/v1/content/by-genre?genre=
func (h *ContentHandler) ListByGenre(c *gin.Context) {
	h.byQuery(c, "genre", h.content.ListByGenreName)
}

// ListByLanguage handles GET /api/v1/content/by-language?language=
func (h *ContentHandler) ListByLanguage(c *gin.Context) {
	h.byQuery(c, "language", h.content.ListByLanguage)
}

// ListByDateRange handles GET /api/v1/content/by-date-range?start=&end=
func (h *ContentHandler) ListByDateRange(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return h.content.ListByReleaseDateRange(ctx, start, end, p)
	}, toContentResponse)
}

// Filter handles GET /api/v1/content/filter?type=&genre=
func (h *ContentHandler) Filter(c *gin.Context) {
	typeName := optionalQuery(c, "type")
	genreName := optionalQuery(c, "genre")
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return h.content.Filter(ctx, typeName, genreName, p)
	}, toContentResponse)
}

// Episodes handles GET /api/v1/content/:id/episodes
func (h *ContentHandler) Episodes(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Episode], error) {
		return h.episodes.ListByContent(ctx, id, p)
	}, toEpisodeResponse)
}

// Genres handles GET /api/v1/content/:id/genres
func (h *ContentHandler) Genres(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Genre], error) {
		return h.genres.ListByContent(ctx, id, p)
	}, toGenreResponse)
}

// LinkGenre handles POST /api/v1/content/:id/genres?genreId=
func (h *ContentHandler) LinkGenre(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	genreID, ok := uuidQuery(c, "genreId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.contentGenres.Link(ctx, middleware.CallerFrom(c), id, genreID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Genre assigned to content"})
}

// ReplaceGenres handles PUT /api/v1/content/:id/genres
func (h *ContentHandler) ReplaceGenres(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req ReplaceGenresRequest
	if !bindJSON(c, &req) {
		return
	}
	genreIDs, msg := parseUUIDs(req.GenreIDs, "genre_ids")
	if msg != "" {
		badRequest(c, msg)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.contentGenres.BulkReplace(ctx, middleware.CallerFrom(c), id, genreIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Content genres replaced"})
}

// UnlinkGenre handles DELETE /api/v1/content/:id/genres/:genreId
func (h *ContentHandler) UnlinkGenre(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	genreID, ok := uuidParam(c, "genreId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.contentGenres.Unlink(ctx, middleware.CallerFrom(c), id, genreID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) byQuery(c *gin.Context, name string, fetch func(context.Context, string, db.Pagination) (*db.Page[*models.Content], error)) {
	value, ok := stringQuery(c, name)
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return fetch(ctx, value, p)
	}, toContentResponse)
}

// dateQuery parses a required YYYY-MM-DD query parameter
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw, ok := stringQuery(c, name)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		badRequest(c, "Invalid "+name+": expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// SetupContentRoutes registers content routes; mutations require an authenticated caller
func SetupContentRoutes(group *gin.RouterGroup, content *catalog.ContentService, contentGenres *catalog.ContentGenreService, genres *catalog.GenreService, episodes *catalog.EpisodeService) {
	handler := NewContentHandler(content, contentGenres, genres, episodes)

	group.GET("/content", handler.List)
	group.GET("/content/available", handler.ListAvailable)
	group.GET("/content/search", handler.Search)
	group.GET("/content/by-type", handler.ListByType)
	group.GET("/content/by-genre", handler.ListByGenre)
	group.GET("/content/by-language", handler.ListByLanguage)
	group.GET("/content/by-date-range", handler.ListByDateRange)
	group.GET("/content/recent", handler.ListRecent)
	group.GET("/content/popular", handler.Popular)
	group.GET("/content/recommendations", handler.Recommendations)
	group.GET("/content/filter", handler.Filter)
	group.GET("/content/:id", handler.Get)
	group.GET("/content/:id/episodes", handler.Episodes)
	group.GET("/content/:id/genres", handler.Genres)

	authed := group.Group("", middleware.RequireAuthenticated())
	authed.POST("/content", handler.Create)
	authed.PUT("/content/:id", handler.Update)
	authed.DELETE("/content/:id", handler.Delete)
	authed.PATCH("/content/:id/toggle-availability", handler.ToggleAvailability)
	authed.POST("/content/:id/genres", handler.LinkGenre)
	authed.PUT("/content/:id/genres", handler.ReplaceGenres)
	authed.DELETE("/content/:id/genres/:genreId", handler.UnlinkGenre)
}
