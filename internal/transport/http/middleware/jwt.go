package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"docuchat/internal/pkg/jwtutil"
	"docuchat/internal/transport/http/response"
)

const (
	ContextUserIDKey      = "user_id"
	ContextUsernameKey    = "username"
	ContextTokenIDKey     = "token_id"
	ContextTokenExpiryKey = "token_expiry"
)

// RevocationChecker reports whether a token ID has been revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func AuthJWT(secret string, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if revocations != nil {
			revoked, revErr := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if revErr == nil && revoked {
				response.Error(c, 401, response.CodeUnauthorized, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextTokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpiryKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}
