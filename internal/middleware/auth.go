package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/swipe-api/internal/auth"
	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/logger"
)

const (
	userIDKey      = "user_id"
	shuffleSeedKey = "shuffle_seed"
)

// RequireAuth rejects requests without a valid Bearer session token and
// stores the caller's id and shuffle seed on the context.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			svcErr.Write(c, svcErr.Unauthenticated("Authorization header missing"))
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			svcErr.Write(c, svcErr.Unauthenticated("Token missing"))
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			svcErr.Write(c, svcErr.Unauthenticated("Invalid or expired token"))
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(shuffleSeedKey, claims.ShuffleSeed)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// UserID returns the authenticated caller, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// ShuffleSeed returns the discovery seed carried by the caller's session.
func ShuffleSeed(c *gin.Context) uint32 {
	v, _ := c.Get(shuffleSeedKey)
	seed, _ := v.(uint32)
	return seed
}
