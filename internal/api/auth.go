package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/reelhouse/internal/account"
)

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Country  *string `json:"country,omitempty"`
}

// LoginRequest represents a request to sign in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// EmailCheckResponse reports whether an email is registered
type EmailCheckResponse struct {
	Email  string `json:"email"`
	Exists bool   `json:"exists"`
}

// AuthHandler handles registration and login
type AuthHandler struct {
	auth *account.AuthService
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(auth *account.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	session, err := h.auth.Register(ctx, account.Registration{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Country:  req.Country,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAuthResponse(session))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	session, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(session))
}

// CheckEmail handles GET /api/v1/auth/check-email?email=
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email, ok := stringQuery(c, "email")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	exists, err := h.auth.EmailTaken(ctx, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, EmailCheckResponse{Email: email, Exists: exists})
}

// SetupAuthRoutes registers the public auth routes
func SetupAuthRoutes(group *gin.RouterGroup, auth *account.AuthService) {
	handler := NewAuthHandler(auth)
	group.POST("/auth/register", handler.Register)
	group.POST("/auth/login", handler.Login)
	group.GET("/auth/check-email", handler.CheckEmail)
}
