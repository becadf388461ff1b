package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediatube/accounts/internal/server/services"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setAuthCookies stores both tokens as httpOnly cookies scoped to the whole
// site. Max-Age tracks each token's lifetime so the browser drops the cookie
// around the time the token stops verifying anyway.
func (s *Server) setAuthCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, pair.AccessToken,
		int(s.config.AccessTokenValidityDuration.Seconds()),
		"/", s.config.CookieDomain, s.config.CookieSecure, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken,
		int(s.config.RefreshTokenValidityDuration.Seconds()),
		"/", s.config.CookieDomain, s.config.CookieSecure, true)
}

func (s *Server) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", s.config.CookieDomain, s.config.CookieSecure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", s.config.CookieDomain, s.config.CookieSecure, true)
}
