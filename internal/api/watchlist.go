package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/middleware"
	"github.com/stwalsh4118/reelhouse/internal/models"
	"github.com/stwalsh4118/reelhouse/internal/watchlist"
)

// TransferResponse reports whether a watchlist transfer went through
type TransferResponse struct {
	Transferred bool `json:"transferred"`
}

// WatchlistHandler handles watchlist HTTP requests
type WatchlistHandler struct {
	lists *watchlist.Service
}

// NewWatchlistHandler creates a new watchlist handler instance
func NewWatchlistHandler(lists *watchlist.Service) *WatchlistHandler {
	return &WatchlistHandler{lists: lists}
}

// Add handles POST /api/v1/watchlist?userId=&contentId=
func (h *WatchlistHandler) Add(c *gin.Context) {
	userID, contentID, ok := entryQuery(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.lists.Add(ctx, middleware.CallerFrom(c), userID, contentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Content added to watchlist"})
}

// Remove handles DELETE /api/v1/watchlist?userId=&contentId=
func (h *WatchlistHandler) Remove(c *gin.Context) {
	userID, contentID, ok := entryQuery(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.lists.Remove(ctx, middleware.CallerFrom(c), userID, contentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Check handles GET /api/v1/watchlist/check?userId=&contentId=
func (h *WatchlistHandler) Check(c *gin.Context) {
	userID, contentID, ok := entryQuery(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	present, err := h.lists.IsPresent(ctx, middleware.CallerFrom(c), userID, contentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PresenceResponse{Present: present})
}

// Entries handles GET /api/v1/watchlist/user/:userId
func (h *WatchlistHandler) Entries(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.WatchlistEntry], error) {
		return h.lists.ListByUser(ctx, caller, userID, p)
	}, toWatchlistEntryResponse)
}

// Content handles GET /api/v1/watchlist/user/:userId/content
func (h *WatchlistHandler) Content(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return h.lists.ContentByUser(ctx, caller, userID, p)
	}, toContentResponse)
}

// ContentByGenre handles GET /api/v1/watchlist/user/:userId/content/by-genre?genre=
func (h *WatchlistHandler) ContentByGenre(c *gin.Context) {
	h.filtered(c, "genre", h.lists.ContentByUserAndGenre)
}

// ContentByType handles GET /api/v1/watchlist/user/:userId/content/by-type?type=
func (h *WatchlistHandler) ContentByType(c *gin.Context) {
	h.filtered(c, "type", h.lists.ContentByUserAndType)
}

// CountByUser handles GET /api/v1/watchlist/user/:userId/count
func (h *WatchlistHandler) CountByUser(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.lists.CountByUser(ctx, middleware.CallerFrom(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// Clear handles DELETE /api/v1/watchlist/user/:userId/clear
func (h *WatchlistHandler) Clear(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.lists.Clear(ctx, middleware.CallerFrom(c), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Users handles GET /api/v1/watchlist/content/:contentId/users
func (h *WatchlistHandler) Users(c *gin.Context) {
	contentID, ok := uuidParam(c, "contentId")
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.User], error) {
		return h.lists.UsersByContent(ctx, caller, contentID, p)
	}, toUserResponse)
}

// CountByContent handles GET /api/v1/watchlist/content/:contentId/count
func (h *WatchlistHandler) CountByContent(c *gin.Context) {
	contentID, ok := uuidParam(c, "contentId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.lists.CountByContent(ctx, middleware.CallerFrom(c), contentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// Transfer handles POST /api/v1/watchlist/transfer?fromUserId=&toUserId=
func (h *WatchlistHandler) Transfer(c *gin.Context) {
	from, ok := uuidQuery(c, "fromUserId")
	if !ok {
		return
	}
	to, ok := uuidQuery(c, "toUserId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	transferred, err := h.lists.Transfer(ctx, middleware.CallerFrom(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TransferResponse{Transferred: transferred})
}

func (h *WatchlistHandler) filtered(c *gin.Context, name string, fetch func(context.Context, auth.Caller, uuid.UUID, string, db.Pagination) (*db.Page[*models.Content], error)) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	value, ok := stringQuery(c, name)
	if !ok {
		return
	}
	caller := middleware.CallerFrom(c)
	respondPage(c, func(ctx context.Context, p db.Pagination) (*db.Page[*models.Content], error) {
		return fetch(ctx, caller, userID, value, p)
	}, toContentResponse)
}

func entryQuery(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := uuidQuery(c, "userId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	contentID, ok := uuidQuery(c, "contentId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, contentID, true
}

// SetupWatchlistRoutes registers watchlist routes; every route requires an authenticated caller
func SetupWatchlistRoutes(group *gin.RouterGroup, lists *watchlist.Service) {
	handler := NewWatchlistHandler(lists)

	w := group.Group("/watchlist", middleware.RequireAuthenticated())
	w.POST("", handler.Add)
	w.DELETE("", handler.Remove)
	w.GET("/check", handler.Check)
	w.POST("/transfer", handler.Transfer)
	w.GET("/user/:userId", handler.Entries)
	w.GET("/user/:userId/content", handler.Content)
	w.GET("/user/:userId/content/by-genre", handler.ContentByGenre)
	w.GET("/user/:userId/content/by-type", handler.ContentByType)
	w.GET("/user/:userId/count", handler.CountByUser)
	w.DELETE("/user/:userId/clear", handler.Clear)
	w.GET("/content/:contentId/users", handler.Users)
	w.GET("/content/:contentId/count", handler.CountByContent)
}
