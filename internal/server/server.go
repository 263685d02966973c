// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/reelhouse/internal/account"
	"github.com/stwalsh4118/reelhouse/internal/api"
	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/catalog"
	"github.com/stwalsh4118/reelhouse/internal/config"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/logger"
	"github.com/stwalsh4118/reelhouse/internal/middleware"
	"github.com/stwalsh4118/reelhouse/internal/watchlist"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	db     *db.DB
	authz  *auth.Authorizer

	authService         *account.AuthService
	userService         *account.UserService
	roleService         *account.RoleService
	contentService      *catalog.ContentService
	contentTypeService  *catalog.ContentTypeService
	genreService        *catalog.GenreService
	contentGenreService *catalog.ContentGenreService
	episodeService      *catalog.EpisodeService
	watchlistService    *watchlist.Service

	router *gin.Engine
	server *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB, tokens *auth.TokenService) *Server {
	repos := db.NewRepositories(database)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	authz := auth.NewAuthorizer(tokens, repos.Users)

	s := &Server{
		config: cfg,
		db:     database,
		authz:  authz,

		authService:         account.NewAuthService(repos, hasher, tokens),
		userService:         account.NewUserService(repos, authz, hasher),
		roleService:         account.NewRoleService(repos, authz),
		contentService:      catalog.NewContentService(repos, authz),
		contentTypeService:  catalog.NewContentTypeService(repos, authz),
		genreService:        catalog.NewGenreService(repos, authz),
		contentGenreService: catalog.NewContentGenreService(repos, authz),
		episodeService:      catalog.NewEpisodeService(repos, authz),
		watchlistService:    watchlist.NewService(repos, authz),
	}
	s.setupRouter()
	return s
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(corsConfig(s.config.Server.AllowedOrigins)))
	s.router.Use(middleware.Authenticate(s.authz))
	s.router.Use(middleware.SanitizeJSON())

	apiGroup := s.router.Group("/api")
	api.SetupHealthRoutes(apiGroup, s.db)

	v1 := apiGroup.Group("/v1")
	api.SetupAuthRoutes(v1, s.authService)
	api.SetupContentRoutes(v1, s.contentService, s.contentGenreService, s.genreService, s.episodeService)
	api.SetupContentTypeRoutes(v1, s.contentTypeService)
	api.SetupGenreRoutes(v1, s.genreService)
	api.SetupEpisodeRoutes(v1, s.episodeService)
	api.SetupUserRoutes(v1, s.userService, s.watchlistService)
	api.SetupRoleRoutes(v1, s.roleService)
	api.SetupWatchlistRoutes(v1, s.watchlistService)
}

// corsConfig allows the configured origins, or any origin when none are configured
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
