package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// usernameKey is the gin context key holding the acting identity extracted
// from a validated bearer token.
const usernameKey = "username"

// requestHeaderID is the header carrying the per-request id, generated when
// the client does not supply one.
const requestHeaderID = "X-Request-Id"

func (s *HTTPServer) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestHeaderID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestHeaderID, id)
		c.Set(requestHeaderID, id)
		c.Next()
	}
}

// accessTokenMiddleware requires a valid bearer token and stores the bound
// username in the request context for the handlers.
func (s *HTTPServer) accessTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		var accessToken string
		header := c.GetHeader("Authorization")
		if after, ok := strings.CutPrefix(header, "Bearer "); ok {
			accessToken = after
		}
		if len(accessToken) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		username, err := auth.GetUsernameFromToken(accessToken, s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

// actingUsername returns the identity set by accessTokenMiddleware.
func actingUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}
