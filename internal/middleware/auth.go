package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/1kta4/finances/internal/syncer"
	"github.com/1kta4/finances/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the JWT and puts the current user id on both
// the gin context and the request context. There is no local user table;
// the token itself is the identity (accounts live on the backend).
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) query param ?token=xxx (for downloads without custom headers)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, sign in again")
			c.Abort()
			return
		}
		if claims.UserID == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Request = c.Request.WithContext(syncer.WithUser(c.Request.Context(), claims.UserID))
		c.Next()
	}
}
