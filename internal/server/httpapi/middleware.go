package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mediatube/accounts/internal/server/models"
)

const userContextKey = "currentUser"

// extractAccessToken looks for the access token in the cookie first, then in
// the Authorization header as a bearer token.
func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessTokenCookie); err == nil && token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}

	return ""
}

// authRequired resolves the access token to an account and attaches it to
// the request context. Requests without a usable token are rejected with 401
// before the handler runs.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := s.sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// currentUser returns the account attached by authRequired. Handlers behind
// the middleware can rely on it being present.
func currentUser(c *gin.Context) *models.User {
	u, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := u.(*models.User)
	return user
}
