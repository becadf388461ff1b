// Package httpapi exposes the account and session operations over HTTP.
// It owns the router, the cookie handling, and the mapping from service
// errors to response statuses.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediatube/accounts/internal/logging"
	"github.com/mediatube/accounts/internal/server/config"
	"github.com/mediatube/accounts/internal/server/services"
)

type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	config     *config.Config
	logger     logging.Logger

	sessions *services.SessionService
	accounts *services.AccountService
	media    *services.MediaService
	social   *services.SocialService
}

func NewServer(cfg *config.Config, l logging.Logger,
	sessions *services.SessionService, accounts *services.AccountService,
	media *services.MediaService, social *services.SocialService) (*Server, error) {

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	s := &Server{
		router:   router,
		config:   cfg,
		logger:   l.With("module", "http_server"),
		sessions: sessions,
		accounts: accounts,
		media:    media,
		social:   social,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	users := s.router.Group("/api/v1/users")

	users.POST("/register", s.handleRegister)
	users.POST("/login", s.handleLogin)
	users.POST("/refreshAccessToken", s.handleRefreshAccessToken)

	protected := users.Group("", s.authRequired())
	protected.POST("/logout", s.handleLogout)
	protected.GET("/currentUser", s.handleCurrentUser)
	protected.POST("/changePassword", s.handleChangePassword)
	protected.PATCH("/updateAccount", s.handleUpdateAccount)
	protected.POST("/avatar/uploadUrl", s.handleAvatarUploadURL)
	protected.PATCH("/avatar", s.handleConfirmAvatar)
	protected.POST("/coverImage/uploadUrl", s.handleCoverImageUploadURL)
	protected.PATCH("/coverImage", s.handleConfirmCoverImage)
	protected.GET("/c/:username", s.handleChannelProfile)
	protected.GET("/watchHistory", s.handleWatchHistory)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	s.httpServer = &http.Server{
		Addr:    s.config.EndpointAddr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.EndpointAddr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
