package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/reelhouse/internal/db"
)

const (
	requestTimeout = 5 * time.Second
	listTimeout    = 10 * time.Second
)

// PageResponse is the JSON shape of a paginated result
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"total_pages"`
}

// toPageResponse converts a page of models using convert
func toPageResponse[M any, R any](page *db.Page[M], convert func(M) R) PageResponse[R] {
	items := make([]R, len(page.Items))
	for i, item := range page.Items {
		items[i] = convert(item)
	}
	return PageResponse[R]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: page.TotalPages,
	}
}

// parsePagination reads page, size and sort query parameters
func parsePagination(c *gin.Context) (db.Pagination, bool) {
	p := db.Pagination{Sort: c.Query("sort")}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			badRequest(c, "Invalid page: must be a non-negative integer")
			return p, false
		}
		p.Page = page
	}
	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			badRequest(c, "Invalid size: must be a positive integer")
			return p, false
		}
		p.Size = size
	}
	return p.Normalize(), true
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func listContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), listTimeout)
}

// respondPage runs a paginated fetch under the list timeout and writes the converted page
func respondPage[M any, R any](c *gin.Context, fetch func(context.Context, db.Pagination) (*db.Page[M], error), convert func(M) R) {
	p, ok := parsePagination(c)
	if !ok {
		return
	}

	ctx, cancel := listContext(c)
	defer cancel()

	page, err := fetch(ctx, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, convert))
}
