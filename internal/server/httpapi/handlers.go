package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediatube/accounts/internal/server/services"
)

type registerRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := s.accounts.Register(c.Request.Context(), req.FullName, req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         any    `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.Password == "" || (req.Username == "" && req.Email == "") {
		respondError(c, http.StatusBadRequest, "username or email and password are required")
		return
	}

	result, err := s.sessions.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	s.setAuthCookies(c, &result.TokenPair)

	respond(c, http.StatusOK, loginResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "logged in successfully")
}

func (s *Server) handleLogout(c *gin.Context) {
	user := currentUser(c)

	if err := s.sessions.Logout(c.Request.Context(), user.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	s.clearAuthCookies(c)

	respond(c, http.StatusOK, nil, "logged out successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// handleRefreshAccessToken accepts the refresh token from the cookie or,
// for non-browser clients, from the request body.
func (s *Server) handleRefreshAccessToken(c *gin.Context) {
	presented, _ := c.Cookie(refreshTokenCookie)
	if presented == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := s.sessions.Refresh(c.Request.Context(), presented)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	s.setAuthCookies(c, pair)

	respond(c, http.StatusOK, refreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "access token refreshed")
}

func (s *Server) handleCurrentUser(c *gin.Context) {
	respond(c, http.StatusOK, currentUser(c).Public(), "current user fetched successfully")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.accounts.ChangePassword(c.Request.Context(), currentUser(c), req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "password changed successfully")
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (s *Server) handleUpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := s.accounts.UpdateAccount(c.Request.Context(), currentUser(c).ID, req.FullName, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, user, "account updated successfully")
}

type uploadURLResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
}

func (s *Server) handleAvatarUploadURL(c *gin.Context) {
	s.handleUploadURL(c, services.ImageAvatar)
}

func (s *Server) handleCoverImageUploadURL(c *gin.Context) {
	s.handleUploadURL(c, services.ImageCover)
}

func (s *Server) handleUploadURL(c *gin.Context, kind services.ImageKind) {
	key, url, err := s.media.PresignUpload(c.Request.Context(), kind)
	if err != nil {
		s.logger.Error(c.Request.Context(), "presigning upload failed", "error", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	respond(c, http.StatusOK, uploadURLResponse{Key: key, UploadURL: url}, "upload url issued")
}

type confirmUploadRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleConfirmAvatar(c *gin.Context) {
	s.handleConfirmUpload(c, services.ImageAvatar, "avatar updated successfully")
}

func (s *Server) handleConfirmCoverImage(c *gin.Context) {
	s.handleConfirmUpload(c, services.ImageCover, "cover image updated successfully")
}

func (s *Server) handleConfirmUpload(c *gin.Context, kind services.ImageKind, message string) {
	var req confirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	url, err := s.media.ConfirmUpload(c.Request.Context(), currentUser(c).ID, kind, req.Key)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"url": url}, message)
}

func (s *Server) handleChannelProfile(c *gin.Context) {
	profile, err := s.social.ChannelProfile(c.Request.Context(), c.Param("username"), currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "channel profile fetched successfully")
}

func (s *Server) handleWatchHistory(c *gin.Context) {
	items, err := s.social.WatchHistory(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, items, "watch history fetched successfully")
}
