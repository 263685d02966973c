package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/catalog"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/middleware"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

// EpisodeRequest represents a request to create or replace an episode
type EpisodeRequest struct {
	ContentID     string  `json:"content_id" binding:"required"`
	SeasonNumber  int     `json:"season_number"`
	EpisodeNumber int     `json:"episode_number"`
	Title         string  `json:"title" binding:"required"`
	Description   *string `json:"description,omitempty"`
	Duration      *string `json:"duration,omitempty"`
	ReleaseDate   *string `json:"release_date,omitempty"`
	ThumbnailURL  *string `json:"thumbnail_url,omitempty"`
	VideoURL      *string `json:"video_url,omitempty"`
}

func (r *EpisodeRequest) toInput() (catalog.EpisodeInput, string) {
	contentID, err := uuid.Parse(r.ContentID)
	if err != nil {
		return catalog.EpisodeInput{}, "Invalid content_id format"
	}
	releaseDate, err := parseDate(r.ReleaseDate)
	if err != nil {
		return catalog.EpisodeInput{}, "Invalid release_date: expected YYYY-MM-DD"
	}
	return catalog.EpisodeInput{
		ContentID:     contentID,
		SeasonNumber:  r.SeasonNumber,
		EpisodeNumber: r.EpisodeNumber,
		Title:         r.Title,
		Description:   r.Description,
		Duration:      r.Duration,
		ReleaseDate:   releaseDate,
		ThumbnailURL:  r.ThumbnailURL,
		VideoURL:      r.VideoURL,
	}, ""
}

// SeasonsResponse lists the distinct season numbers of a content item
type SeasonsResponse struct {
	Seasons []int `json:"seasons"`
}

// EpisodeHandler handles episode-related HTTP requests
type EpisodeHandler struct {
	episodes *catalog.EpisodeService
}

// NewEpisodeHandler creates a new episode handler instance
func NewEpisodeHandler(episodes *catalog.EpisodeService) *EpisodeHandler {
	return &EpisodeHandler{episodes: episodes}
}

// Create handles POST /api/v1/episodes
func (h *EpisodeHandler) Create(c *gin.Context) {
	var req EpisodeRequest
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

	ep, err := h.episodes.Create(ctx, middleware.CallerFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEpisodeResponse(ep))
}

// Get handles GET /api/v1/episodes/:id
func (h *EpisodeHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ep, err := h.episodes.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEpisodeResponse(ep))
}

// Content handles GET /api/v1/episodes/:id/content
func (h *EpisodeHandler) Content(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	content, err := h.episodes.ContentFor(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentResponse(content))
}

// Update handles PUT /api/v1/episodes/:id
func (h *EpisodeHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req EpisodeRequest
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

	ep, err := h.episodes.Update(ctx, middleware.CallerFrom(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEpisodeResponse(ep))
}

// Delete handles DELETE /api/v1/episodes/:id
func (h *EpisodeHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.episodes.Delete(ctx, middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/v1/episodes
func (h *EpisodeHandler) List(c *gin.Context) {
	respondPage(c, h.episodes.List, toEpisodeResponse)
}

// ListByContent handles GET /api/v1/episodes/by-content/:contentId
func (h *EpisodeHandler) ListByContent(c *gin.Context) {
	contentID, ok := uuidParam(c, "contentId")
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Episode], error) {
		return h.episodes.ListByContent(ctx, contentID, p)
	}, toEpisodeResponse)
}

// Seasons handles GET /api/v1/episodes/by-content/:contentId/seasons
func (h *EpisodeHandler) Seasons(c *gin.Context) {
	contentID, ok := uuidParam(c, "contentId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	seasons, err := h.episodes.Seasons(ctx, contentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SeasonsResponse{Seasons: seasons})
}

// CountByContent handles GET /api/v1/episodes/by-content/:contentId/count
func (h *EpisodeHandler) CountByContent(c *gin.Context) {
	contentID, ok := uuidParam(c, "contentId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.episodes.CountByContent(ctx, contentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// ListBySeason handles GET /api/v1/episodes/by-content/:contentId/season/:season
func (h *EpisodeHandler) ListBySeason(c *gin.Context) {
	contentID, season, ok := seasonParams(c)
	if !ok {
		return
	}
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Episode], error) {
		return h.episodes.ListBySeason(ctx, contentID, season, p)
	}, toEpisodeResponse)
}

// CountBySeason handles GET /api/v1/episodes/by-content/:contentId/season/:season/count
func (h *EpisodeHandler) CountBySeason(c *gin.Context) {
	contentID, season, ok := seasonParams(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.episodes.CountBySeason(ctx, contentID, season)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// GetByNumber handles GET /api/v1/episodes/by-content/:contentId/season/:season/episode/:episode
func (h *EpisodeHandler) GetByNumber(c *gin.Context) {
	h.locate(c, h.episodes.GetByNumber)
}

// Next handles GET /api/v1/episodes/by-content/:contentId/season/:season/episode/:episode/next
func (h *EpisodeHandler) Next(c *gin.Context) {
	h.locate(c, h.episodes.Next)
}

// Previous handles GET /api/v1/episodes/by-content/:contentId/season/:season/episode/:episode/previous
func (h *EpisodeHandler) Previous(c *gin.Context) {
	h.locate(c, h.episodes.Previous)
}

func (h *EpisodeHandler) locate(c *gin.Context, find func(context.Context, uuid.UUID, int, int) (*models.Episode, error)) {
	contentID, season, ok := seasonParams(c)
	if !ok {
		return
	}
	episode, ok := intParam(c, "episode")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ep, err := find(ctx, contentID, season, episode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEpisodeResponse(ep))
}

func seasonParams(c *gin.Context) (uuid.UUID, int, bool) {
	contentID, ok := uuidParam(c, "contentId")
	if !ok {
		return uuid.Nil, 0, false
	}
	season, ok := intParam(c, "season")
	if !ok {
		return uuid.Nil, 0, false
	}
	return contentID, season, true
}

// SetupEpisodeRoutes registers episode routes; mutations require an authenticated caller
func SetupEpisodeRoutes(group *gin.RouterGroup, episodes *catalog.EpisodeService) {
	handler := NewEpisodeHandler(episodes)

	e := group.Group("/episodes")
	e.GET("", handler.List)
	e.GET("/:id", handler.Get)
	e.GET("/:id/content", handler.Content)

	byContent := e.Group("/by-content/:contentId")
	byContent.GET("", handler.ListByContent)
	byContent.GET("/seasons", handler.Seasons)
	byContent.GET("/count", handler.CountByContent)
	byContent.GET("/season/:season", handler.ListBySeason)
	byContent.GET("/season/:season/count", handler.CountBySeason)
	byContent.GET("/season/:season/episode/:episode", handler.GetByNumber)
	byContent.GET("/season/:season/episode/:episode/next", handler.Next)
	byContent.GET("/season/:season/episode/:episode/previous", handler.Previous)

	authed := e.Group("", middleware.RequireAuthenticated())
	authed.POST("", handler.Create)
	authed.PUT("/:id", handler.Update)
	authed.DELETE("/:id", handler.Delete)
}
