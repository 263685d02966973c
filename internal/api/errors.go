package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/logger"
)

const errInvalidRequest = "invalid_request"

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse acknowledges a mutation that returns no resource
type MessageResponse struct {
	Message string `json:"message"`
}

// CountResponse wraps a single count
type CountResponse struct {
	Count int64 `json:"count"`
}

// respondError writes err using the status mapped from its kind
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		logger.Log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	c.JSON(status, ErrorResponse{
		Error:   string(kind),
		Message: apperr.MessageOf(err),
	})
}

// badRequest writes a request-shape error
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   errInvalidRequest,
		Message: message,
	})
}

// bindJSON decodes the body into req, writing a 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// uuidParam parses a path parameter as a UUID, writing a 400 on failure
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// uuidQuery parses a required query parameter as a UUID, writing a 400 on failure
func uuidQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	raw, ok := stringQuery(c, name)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// stringQuery reads a required, non-empty query parameter
func stringQuery(c *gin.Context, name string) (string, bool) {
	value := c.Query(name)
	if value == "" {
		badRequest(c, "Missing required query parameter: "+name)
		return "", false
	}
	return value, true
}

// intParam parses a positive integer path parameter
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 1 {
		badRequest(c, "Invalid "+name+": must be a positive integer")
		return 0, false
	}
	return n, true
}

// optionalQuery returns a pointer to a query value, or nil when absent
func optionalQuery(c *gin.Context, name string) *string {
	if value, ok := c.GetQuery(name); ok && value != "" {
		return &value
	}
	return nil
}
